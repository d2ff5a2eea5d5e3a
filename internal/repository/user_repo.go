package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/models"
)

// UserRepository exposes persistence helpers for user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateImageURL(ctx context.Context, id uint, imageURL string) error
	HasAccessGrant(ctx context.Context, ownerID, granteeID uint) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the repository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateImageURL(ctx context.Context, id uint, imageURL string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("image_url", imageURL).Error
}

func (r *userRepository) HasAccessGrant(ctx context.Context, ownerID, granteeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProfileAccessGrant{}).
		Where("user_id = ? AND grantee_id = ?", ownerID, granteeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
