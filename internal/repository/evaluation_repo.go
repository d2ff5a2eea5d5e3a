package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/models"
)

// EvaluationFilter narrows evaluation list queries.
type EvaluationFilter struct {
	Status string
	Limit  int
	Offset int
}

func (f *EvaluationFilter) normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// EvaluationRepository exposes persistence helpers for evaluations.
type EvaluationRepository interface {
	FindByID(ctx context.Context, id uint) (models.Evaluation, error)
	ListByEvaluator(ctx context.Context, evaluatorID uint, filter EvaluationFilter) ([]models.Evaluation, int64, error)
	Complete(ctx context.Context, id uint, score float64, comments string, criteria []models.EvaluationCriterion, completedAt time.Time) error
	CountByEvaluator(ctx context.Context, evaluatorID uint, status string) (int64, error)
	AverageScoreByEvaluator(ctx context.Context, evaluatorID uint) (float64, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository constructs the repository implementation.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) FindByID(ctx context.Context, id uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).
		Preload("Project.Group").
		Preload("Evaluator").
		Preload("Criteria").
		First(&evaluation, id).Error; err != nil {
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

func (r *evaluationRepository) ListByEvaluator(ctx context.Context, evaluatorID uint, filter EvaluationFilter) ([]models.Evaluation, int64, error) {
	filter.normalize()

	query := r.db.WithContext(ctx).Model(&models.Evaluation{}).Where("evaluator_id = ?", evaluatorID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var evaluations []models.Evaluation
	if err := query.
		Preload("Project.Group").
		Preload("Criteria").
		Order("created_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&evaluations).Error; err != nil {
		return nil, 0, err
	}

	return evaluations, total, nil
}

func (r *evaluationRepository) Complete(ctx context.Context, id uint, score float64, comments string, criteria []models.EvaluationCriterion, completedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":           models.EvaluationStatusCompleted,
			"score":            score,
			"overall_comments": comments,
			"completed_at":     completedAt,
		}
		if err := tx.Model(&models.Evaluation{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("evaluation_id = ?", id).Delete(&models.EvaluationCriterion{}).Error; err != nil {
			return err
		}
		for i := range criteria {
			criteria[i].EvaluationID = id
		}
		if len(criteria) > 0 {
			if err := tx.Create(&criteria).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *evaluationRepository) CountByEvaluator(ctx context.Context, evaluatorID uint, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Evaluation{}).Where("evaluator_id = ?", evaluatorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *evaluationRepository) AverageScoreByEvaluator(ctx context.Context, evaluatorID uint) (float64, error) {
	var average *float64
	err := r.db.WithContext(ctx).Model(&models.Evaluation{}).
		Where("evaluator_id = ? AND status = ?", evaluatorID, models.EvaluationStatusCompleted).
		Select("AVG(score)").
		Scan(&average).Error
	if err != nil || average == nil {
		return 0, err
	}
	return *average, nil
}
