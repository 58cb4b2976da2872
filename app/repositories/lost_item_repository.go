package repositories

import (
	"context"
	"fmt"

	"github.com/hustlcampus/hustl/app/models"
	"gorm.io/gorm"
)

type LostItemRepository struct {
	db *gorm.DB
}

func NewLostItemRepository(db *gorm.DB) *LostItemRepository {
	return &LostItemRepository{db: db}
}

func (r *LostItemRepository) Create(ctx context.Context, item *models.LostItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create lost item: %w", err)
	}
	return nil
}

func (r *LostItemRepository) FindByID(ctx context.Context, id uint) (*models.LostItem, error) {
	var item models.LostItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// Open lists unrecovered items newest first. limit <= 0 means no limit.
func (r *LostItemRepository) Open(ctx context.Context, limit int) ([]models.LostItem, error) {
	q := r.db.WithContext(ctx).Where("is_recovered = 0").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var items []models.LostItem
	err := q.Find(&items).Error
	return items, err
}

func (r *LostItemRepository) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.LostItem{}).Where("is_recovered = 0").Count(&n).Error
	return n, err
}

// MarkRecovered sets is_recovered=1. The caller has already loaded the
// item; RowsAffected is not checked because MySQL reports changed rows and
// an item that is already recovered changes nothing.
func (r *LostItemRepository) MarkRecovered(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.LostItem{}).Where("id = ?", id).Update("is_recovered", 1).Error
	if err != nil {
		return fmt.Errorf("mark lost item %d recovered: %w", id, err)
	}
	return nil
}
