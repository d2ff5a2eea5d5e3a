package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/observability"
	"github.com/prp-platform/prp-api/internal/repository"
	"github.com/prp-platform/prp-api/pkg/report"
)

// Score category bands, highest first.
const (
	CategoryExcellent        = "Excellent"
	CategoryGood             = "Good"
	CategorySatisfactory     = "Satisfactory"
	CategoryNeedsImprovement = "Needs Improvement"
	CategoryUnsatisfactory   = "Unsatisfactory"
)

// CategoryForScore maps a 0-100 score to its qualitative band. The band is
// always derived from the score, never read back from storage.
func CategoryForScore(score float64) string {
	switch {
	case score >= 90:
		return CategoryExcellent
	case score >= 80:
		return CategoryGood
	case score >= 70:
		return CategorySatisfactory
	case score >= 60:
		return CategoryNeedsImprovement
	default:
		return CategoryUnsatisfactory
	}
}

// ErrEvaluationCompleted indicates a submit against an already-completed evaluation.
var ErrEvaluationCompleted = errors.New("evaluation already completed")

// EvaluationService exposes the evaluator workflow.
type EvaluationService interface {
	Pending(ctx context.Context, evaluatorID uint, limit, offset int) ([]dto.PendingEvaluationResponse, dto.Pagination, error)
	Completed(ctx context.Context, evaluatorID uint, limit, offset int) (dto.EvaluationListResponse, error)
	Submit(ctx context.Context, id uint, viewer access.Viewer, req dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error)
	Report(ctx context.Context, id uint, viewer access.Viewer) ([]byte, string, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	notifier    Notifier
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(evaluations repository.EvaluationRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		notifier:    notifier,
		validator:   validate,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		tracer:      otel.Tracer("github.com/prp-platform/prp-api/internal/service/evaluation"),
		now:         time.Now,
	}
}

func (s *evaluationService) Pending(ctx context.Context, evaluatorID uint, limit, offset int) ([]dto.PendingEvaluationResponse, dto.Pagination, error) {
	limit = clampLimit(limit, 20, 100)
	offset = maxInt(offset, 0)

	evaluations, total, err := s.evaluations.ListByEvaluator(ctx, evaluatorID, repository.EvaluationFilter{
		Status: models.EvaluationStatusPending,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	items := make([]dto.PendingEvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		items = append(items, dto.PendingEvaluationResponse{
			ID:           evaluation.ID,
			ProjectID:    evaluation.ProjectID,
			ProjectTitle: evaluation.Project.Title,
			GroupName:    evaluation.Project.Group.Name,
			AssignedAt:   evaluation.CreatedAt,
		})
	}

	return items, dto.NewPagination(total, limit, offset), nil
}

func (s *evaluationService) Completed(ctx context.Context, evaluatorID uint, limit, offset int) (dto.EvaluationListResponse, error) {
	limit = clampLimit(limit, 20, 100)
	offset = maxInt(offset, 0)

	evaluations, total, err := s.evaluations.ListByEvaluator(ctx, evaluatorID, repository.EvaluationFilter{
		Status: models.EvaluationStatusCompleted,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return dto.EvaluationListResponse{}, err
	}

	items := make([]dto.EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		items = append(items, newEvaluationResponse(evaluation))
	}

	return dto.EvaluationListResponse{
		Items:      items,
		Pagination: dto.NewPagination(total, limit, offset),
	}, nil
}

func (s *evaluationService) Submit(ctx context.Context, id uint, viewer access.Viewer, req dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.EvaluationResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "evaluation.submit", trace.WithAttributes(
		attribute.Int("evaluation.id", int(id)),
	))
	defer span.End()

	evaluation, err := s.evaluations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrNotFound
		}
		return dto.EvaluationResponse{}, err
	}
	if evaluation.EvaluatorID != viewer.UserID {
		return dto.EvaluationResponse{}, ErrForbidden
	}
	if evaluation.Status == models.EvaluationStatusCompleted {
		return dto.EvaluationResponse{}, ErrEvaluationCompleted
	}

	score, err := overallScore(req.Criteria)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	criteria := make([]models.EvaluationCriterion, 0, len(req.Criteria))
	for _, input := range req.Criteria {
		criteria = append(criteria, models.EvaluationCriterion{
			Name:     input.Name,
			Score:    input.Score,
			MaxScore: input.MaxScore,
			Comment:  input.Comment,
		})
	}

	completedAt := s.now()
	if err := s.evaluations.Complete(ctx, evaluation.ID, score, req.OverallComments, criteria, completedAt); err != nil {
		span.RecordError(err)
		return dto.EvaluationResponse{}, err
	}

	evaluation.Status = models.EvaluationStatusCompleted
	evaluation.Score = score
	evaluation.OverallComments = req.OverallComments
	evaluation.Criteria = criteria
	evaluation.CompletedAt = &completedAt

	observability.EvaluationsSubmitted().WithLabelValues(CategoryForScore(score)).Inc()

	if s.notifier != nil {
		for _, member := range evaluation.Project.Group.Members {
			s.notifier.Notify(ctx, dto.NotificationCreateRequest{
				UserID:  member.ID,
				Type:    "evaluation.completed",
				Message: fmt.Sprintf("Your project %q received an evaluation score of %.1f", evaluation.Project.Title, score),
			})
		}
	}

	s.logger.Info().Uint("evaluation_id", evaluation.ID).Float64("score", score).Msg("evaluation submitted")

	return newEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Report(ctx context.Context, id uint, viewer access.Viewer) ([]byte, string, error) {
	evaluation, err := s.evaluations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if evaluation.EvaluatorID != viewer.UserID && viewer.Role != models.RoleAdministrator {
		return nil, "", ErrForbidden
	}
	if evaluation.Status != models.EvaluationStatusCompleted {
		return nil, "", ErrNotFound
	}

	criteria := make([]report.Criterion, 0, len(evaluation.Criteria))
	for _, criterion := range evaluation.Criteria {
		criteria = append(criteria, report.Criterion{
			Name:     criterion.Name,
			Score:    criterion.Score,
			MaxScore: criterion.MaxScore,
			Comment:  criterion.Comment,
		})
	}

	completedAt := time.Time{}
	if evaluation.CompletedAt != nil {
		completedAt = *evaluation.CompletedAt
	}

	payload, err := report.Render(report.Evaluation{
		ProjectTitle:    evaluation.Project.Title,
		GroupName:       evaluation.Project.Group.Name,
		EvaluatorName:   evaluation.Evaluator.Name,
		Score:           evaluation.Score,
		Category:        CategoryForScore(evaluation.Score),
		OverallComments: evaluation.OverallComments,
		CompletedAt:     completedAt,
		Criteria:        criteria,
	})
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("evaluation-%d.pdf", evaluation.ID)
	return payload, filename, nil
}

// overallScore normalizes the criteria to a 0-100 score weighted by each
// criterion's max score.
func overallScore(criteria []dto.CriterionInput) (float64, error) {
	var earned, possible float64
	for _, criterion := range criteria {
		if criterion.Score > criterion.MaxScore {
			return 0, fmt.Errorf("criterion %q score exceeds its max", criterion.Name)
		}
		earned += criterion.Score
		possible += criterion.MaxScore
	}
	if possible <= 0 {
		return 0, errors.New("criteria must carry a positive max score")
	}
	return earned / possible * 100, nil
}

func newEvaluationResponse(evaluation models.Evaluation) dto.EvaluationResponse {
	criteria := make([]dto.CriterionResponse, 0, len(evaluation.Criteria))
	for _, criterion := range evaluation.Criteria {
		criteria = append(criteria, dto.CriterionResponse{
			ID:       criterion.ID,
			Name:     criterion.Name,
			Score:    criterion.Score,
			MaxScore: criterion.MaxScore,
			Comment:  criterion.Comment,
		})
	}

	return dto.EvaluationResponse{
		ID:              evaluation.ID,
		ProjectID:       evaluation.ProjectID,
		ProjectTitle:    evaluation.Project.Title,
		GroupName:       evaluation.Project.Group.Name,
		Score:           evaluation.Score,
		Category:        CategoryForScore(evaluation.Score),
		Criteria:        criteria,
		OverallComments: evaluation.OverallComments,
		CompletedAt:     evaluation.CompletedAt,
		CreatedAt:       evaluation.CreatedAt,
	}
}
