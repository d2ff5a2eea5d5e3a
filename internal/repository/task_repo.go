package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/models"
)

// TaskFilter narrows task list queries.
type TaskFilter struct {
	Status string
	Limit  int
	Offset int
}

func (f *TaskFilter) normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// TaskRepository exposes persistence helpers for tasks.
type TaskRepository interface {
	FindByID(ctx context.Context, id uint) (models.Task, error)
	ListByUser(ctx context.Context, userID uint, filter TaskFilter) ([]models.Task, int64, error)
	ListByProject(ctx context.Context, projectID uint, filter TaskFilter) ([]models.Task, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	CountOpenByUser(ctx context.Context, userID uint) (int64, error)
	CountOverdueByUser(ctx context.Context, userID uint, reference time.Time) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository constructs the repository implementation.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) FindByID(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Preload("Project").
		First(&task, id).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID uint, filter TaskFilter) ([]models.Task, int64, error) {
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("assignee_id = ? OR creator_id = ?", userID, userID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	return r.page(query, filter)
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID uint, filter TaskFilter) ([]models.Task, int64, error) {
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("project_id = ?", projectID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	return r.page(query, filter)
}

func (r *taskRepository) page(query *gorm.DB, filter TaskFilter) ([]models.Task, int64, error) {
	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := query.
		Preload("Assignee").
		Preload("Creator").
		Preload("Project").
		Order("created_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Update("status", status).Error
}

func (r *taskRepository) CountOpenByUser(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("(assignee_id = ? OR creator_id = ?) AND status NOT IN ?", userID, userID, []string{models.TaskStatusDone}).
		Count(&total).Error
	return total, err
}

func (r *taskRepository) CountOverdueByUser(ctx context.Context, userID uint, reference time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("(assignee_id = ? OR creator_id = ?) AND status != ? AND deadline IS NOT NULL AND deadline < ?",
			userID, userID, models.TaskStatusDone, reference).
		Count(&total).Error
	return total, err
}
