package repositories

import (
	"context"
	"fmt"

	"github.com/hustlcampus/hustl/app/models"
	"gorm.io/gorm"
)

// ListingRow is a listing joined with its seller's user row. The seller
// columns are nil when user_id is null or dangling.
type ListingRow struct {
	models.Listing `gorm:"embedded"`
	SellerName     *string
	SellerEmail    *string
	SellerLegal    *string
}

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id uint) (*models.Listing, error) {
	var l models.Listing
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// Row returns one listing with seller columns.
func (r *ListingRepository) Row(ctx context.Context, id uint) (*ListingRow, error) {
	var rows []ListingRow
	if err := r.joined(ctx).Where("market_items.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// Active lists unsold listings newest first. limit <= 0 means no limit.
func (r *ListingRepository) Active(ctx context.Context, limit int) ([]ListingRow, error) {
	q := r.joined(ctx).Where("market_items.is_sold = 0")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []ListingRow
	err := q.Scan(&rows).Error
	return rows, err
}

// ActiveBySeller lists a seller's unsold listings, leaving out excludeID.
func (r *ListingRepository) ActiveBySeller(ctx context.Context, userID, excludeID uint) ([]ListingRow, error) {
	var rows []ListingRow
	err := r.joined(ctx).
		Where("market_items.user_id = ? AND market_items.is_sold = 0 AND market_items.id <> ?", userID, excludeID).
		Scan(&rows).Error
	return rows, err
}

// BySeller lists every listing of a seller, sold or not.
func (r *ListingRepository) BySeller(ctx context.Context, userID uint) ([]ListingRow, error) {
	var rows []ListingRow
	err := r.joined(ctx).Where("market_items.user_id = ?", userID).Scan(&rows).Error
	return rows, err
}

// All lists every listing, newest first.
func (r *ListingRepository) All(ctx context.Context) ([]ListingRow, error) {
	var rows []ListingRow
	err := r.joined(ctx).Scan(&rows).Error
	return rows, err
}

func (r *ListingRepository) MarkSold(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Update("is_sold", 1)
	if res.Error != nil {
		return fmt.Errorf("mark listing %d sold: %w", id, res.Error)
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Listing{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete listing %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ListingRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Select("market_items.*, users.display_name AS seller_name, users.email AS seller_email, users.legal_name AS seller_legal").
		Joins("LEFT JOIN users ON users.id = market_items.user_id").
		Order("market_items.id DESC")
}
