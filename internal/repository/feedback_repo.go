package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/models"
)

// FeedbackFilter narrows feedback list queries.
type FeedbackFilter struct {
	Status string
	Limit  int
	Offset int
}

func (f *FeedbackFilter) normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// FeedbackRepository exposes persistence helpers for feedback threads.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByID(ctx context.Context, id uint) (models.Feedback, error)
	ListByProject(ctx context.Context, projectID uint, filter FeedbackFilter) ([]models.Feedback, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, filter FeedbackFilter) ([]models.Feedback, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	AddResponse(ctx context.Context, response *models.FeedbackResponse) error
	CountOpenByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository constructs the repository implementation.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) FindByID(ctx context.Context, id uint) (models.Feedback, error) {
	var feedback models.Feedback
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Responses.Author").
		First(&feedback, id).Error; err != nil {
		return models.Feedback{}, err
	}
	return feedback, nil
}

func (r *feedbackRepository) ListByProject(ctx context.Context, projectID uint, filter FeedbackFilter) ([]models.Feedback, int64, error) {
	filter.normalize()
	query := r.db.WithContext(ctx).Model(&models.Feedback{}).Where("project_id = ?", projectID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return r.page(query, filter)
}

func (r *feedbackRepository) ListByAuthor(ctx context.Context, authorID uint, filter FeedbackFilter) ([]models.Feedback, int64, error) {
	filter.normalize()
	query := r.db.WithContext(ctx).Model(&models.Feedback{}).Where("author_id = ?", authorID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return r.page(query, filter)
}

func (r *feedbackRepository) page(query *gorm.DB, filter FeedbackFilter) ([]models.Feedback, int64, error) {
	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Feedback
	if err := query.
		Preload("Author").
		Preload("Responses.Author").
		Order("created_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *feedbackRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Feedback{}).Where("id = ?", id).Update("status", status).Error
}

func (r *feedbackRepository) AddResponse(ctx context.Context, response *models.FeedbackResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *feedbackRepository) CountOpenByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("author_id = ? AND status = ?", authorID, models.FeedbackStatusOpen).
		Count(&total).Error
	return total, err
}
