package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/models"
)

// ProjectFilter narrows project list queries.
type ProjectFilter struct {
	Status string
	Limit  int
	Offset int
}

func (f *ProjectFilter) normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ProjectRepository exposes persistence helpers for projects.
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (models.Project, error)
	ListByMember(ctx context.Context, userID uint, filter ProjectFilter) ([]models.Project, int64, error)
	ListByAdvisor(ctx context.Context, advisorID uint, filter ProjectFilter) ([]models.Project, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Stats(ctx context.Context, projectID uint) (ProjectCounts, error)
	CountByAdvisor(ctx context.Context, advisorID uint, status string) (int64, error)
	CountAdvisees(ctx context.Context, advisorID uint) (int64, error)
	Search(ctx context.Context, query string, limit int) ([]models.Project, error)
}

// ProjectCounts aggregates resources attached to a project.
type ProjectCounts struct {
	Tasks        int64
	Repositories int64
	Evaluations  int64
	Feedback     int64
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository constructs the repository implementation.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Advisor").
		First(&project, id).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (r *projectRepository) ListByMember(ctx context.Context, userID uint, filter ProjectFilter) ([]models.Project, int64, error) {
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&models.Project{}).
		Joins("JOIN group_members ON group_members.group_id = projects.group_id").
		Where("group_members.user_id = ?", userID)
	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}

	return r.page(query, filter)
}

func (r *projectRepository) ListByAdvisor(ctx context.Context, advisorID uint, filter ProjectFilter) ([]models.Project, int64, error) {
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("advisor_id = ?", advisorID)
	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}

	return r.page(query, filter)
}

func (r *projectRepository) page(query *gorm.DB, filter ProjectFilter) ([]models.Project, int64, error) {
	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.
		Preload("Group").
		Preload("Advisor").
		Order("projects.updated_at DESC, projects.id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Update("status", status).Error
}

func (r *projectRepository) Stats(ctx context.Context, projectID uint) (ProjectCounts, error) {
	var counts ProjectCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&counts.Tasks).Error; err != nil {
		return ProjectCounts{}, err
	}
	if err := db.Model(&models.Repository{}).Where("project_id = ?", projectID).Count(&counts.Repositories).Error; err != nil {
		return ProjectCounts{}, err
	}
	if err := db.Model(&models.Evaluation{}).Where("project_id = ?", projectID).Count(&counts.Evaluations).Error; err != nil {
		return ProjectCounts{}, err
	}
	if err := db.Model(&models.Feedback{}).Where("project_id = ?", projectID).Count(&counts.Feedback).Error; err != nil {
		return ProjectCounts{}, err
	}

	return counts, nil
}

func (r *projectRepository) CountByAdvisor(ctx context.Context, advisorID uint, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("advisor_id = ?", advisorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

// CountAdvisees counts the distinct students in groups whose projects the
// advisor supervises.
func (r *projectRepository) CountAdvisees(ctx context.Context, advisorID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("group_members").
		Joins("JOIN projects ON projects.group_id = group_members.group_id").
		Where("projects.advisor_id = ?", advisorID).
		Distinct("group_members.user_id").
		Count(&total).Error
	return total, err
}

func (r *projectRepository) Search(ctx context.Context, query string, limit int) ([]models.Project, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Advisor").
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
