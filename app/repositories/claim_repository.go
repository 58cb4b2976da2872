package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/hustlcampus/hustl/app/models"
	"gorm.io/gorm"
)

// ClaimRow is a claim joined with the title and image of its item.
type ClaimRow struct {
	models.ClaimRequest `gorm:"embedded"`
	ItemTitle           string
	ItemImage           *string
}

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Create(ctx context.Context, c *models.ClaimRequest) error {
	if c.Status == "" {
		c.Status = models.ClaimPending
	}
	if err := r.db.WithContext(ctx).Omit("Item").Create(c).Error; err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

func (r *ClaimRepository) FindByID(ctx context.Context, id uint) (*models.ClaimRequest, error) {
	var c models.ClaimRequest
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Transition moves claim id from one status to another and reports whether
// the row changed. The status guard makes concurrent decisions safe.
func (r *ClaimRepository) Transition(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ClaimRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("claim %d %s -> %s: %w", id, from, to, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Pending lists pending claims with their item, newest first.
func (r *ClaimRepository) Pending(ctx context.Context) ([]ClaimRow, error) {
	var rows []ClaimRow
	err := r.db.WithContext(ctx).
		Model(&models.ClaimRequest{}).
		Select("claim_requests.*, lost_items.title AS item_title, lost_items.image AS item_image").
		Joins("JOIN lost_items ON lost_items.id = claim_requests.item_id").
		Where("claim_requests.status = ?", models.ClaimPending).
		Order("claim_requests.created_at DESC, claim_requests.id DESC").
		Scan(&rows).Error
	return rows, err
}

// CountApproved counts approved claims filed at or after since. A zero
// since counts all of them.
func (r *ClaimRepository) CountApproved(ctx context.Context, since time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ClaimRequest{}).Where("status = ?", models.ClaimApproved)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
