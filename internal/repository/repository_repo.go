package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/models"
)

// RepoRepository exposes persistence helpers for code repositories.
type RepoRepository interface {
	FindByOwnerAndName(ctx context.Context, groupUserName, name string) (models.Repository, error)
	ListByGroup(ctx context.Context, groupID uint) ([]models.Repository, error)
	CountProjects(ctx context.Context, repo models.Repository) (int64, error)
	IsGroupMember(ctx context.Context, groupID, userID uint) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]models.Repository, error)
}

type repoRepository struct {
	db *gorm.DB
}

// NewRepoRepository constructs the repository implementation.
func NewRepoRepository(db *gorm.DB) RepoRepository {
	return &repoRepository{db: db}
}

func (r *repoRepository) FindByOwnerAndName(ctx context.Context, groupUserName, name string) (models.Repository, error) {
	var repo models.Repository
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Joins("JOIN groups ON groups.id = repositories.group_id").
		Where("groups.group_user_name = ? AND repositories.name = ?", strings.TrimSpace(groupUserName), strings.TrimSpace(name)).
		First(&repo).Error; err != nil {
		return models.Repository{}, err
	}
	return repo, nil
}

func (r *repoRepository) ListByGroup(ctx context.Context, groupID uint) ([]models.Repository, error) {
	var repos []models.Repository
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Where("group_id = ?", groupID).
		Order("name ASC").
		Find(&repos).Error; err != nil {
		return nil, err
	}
	return repos, nil
}

func (r *repoRepository) CountProjects(ctx context.Context, repo models.Repository) (int64, error) {
	if repo.ProjectID == nil {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Repository{}).
		Where("project_id = ?", *repo.ProjectID).
		Count(&total).Error
	return total, err
}

func (r *repoRepository) IsGroupMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repoRepository) Search(ctx context.Context, query string, limit int) ([]models.Repository, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var repos []models.Repository
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&repos).Error; err != nil {
		return nil, err
	}
	return repos, nil
}
