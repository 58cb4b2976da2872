package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/hustlcampus/hustl/app/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// NormalizeEmail is the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail matches case-insensitively, so legacy rows stored with mixed
// case are still found.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", NormalizeEmail(email)).
		Order("id").
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) SetPassword(ctx context.Context, id uint, hash string) error {
	return r.update(ctx, id, map[string]any{"password_hash": hash})
}

// SaveProfile writes the seller profile and resets verification: every
// submission needs a fresh admin review.
func (r *UserRepository) SaveProfile(ctx context.Context, id uint, fields map[string]any) error {
	values := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		values[k] = v
	}
	values["user_type"] = models.UserTypeSeller
	values["is_verified"] = 0
	return r.update(ctx, id, values)
}

// MarkVerified sets is_verified=1 for a user with a submitted profile and
// reports whether a row changed.
func (r *UserRepository) MarkVerified(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reg_number IS NOT NULL AND reg_number <> '' AND is_verified = 0", id).
		Update("is_verified", 1)
	if res.Error != nil {
		return false, fmt.Errorf("verify user %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Pending lists users awaiting verification, oldest submission first.
func (r *UserRepository) Pending(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("reg_number IS NOT NULL AND reg_number <> '' AND is_verified = 0").
		Order("id").
		Find(&users).Error
	return users, err
}

// All lists every user, newest first.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// update writes values to a user the caller has already loaded. Zero
// affected rows is not an error: MySQL counts changed rows, so rewriting
// identical values reports none.
func (r *UserRepository) update(ctx context.Context, id uint, values map[string]any) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values).Error
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}
