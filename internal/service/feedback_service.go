package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

// FeedbackService exposes feedback thread operations.
type FeedbackService interface {
	Create(ctx context.Context, viewer access.Viewer, req dto.FeedbackCreateRequest) (dto.FeedbackResponse, error)
	ListByProject(ctx context.Context, projectID uint, filter repository.FeedbackFilter) (dto.FeedbackListResponse, error)
	UpdateStatus(ctx context.Context, id uint, viewer access.Viewer, status string) (dto.FeedbackResponse, error)
	Reply(ctx context.Context, id uint, viewer access.Viewer, req dto.FeedbackReplyCreateRequest) (dto.FeedbackResponse, error)
}

type feedbackService struct {
	feedback  repository.FeedbackRepository
	notifier  Notifier
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(feedback repository.FeedbackRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		feedback:  feedback,
		notifier:  notifier,
		validator: validate,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "feedback_service").Logger(),
	}
}

func (s *feedbackService) Create(ctx context.Context, viewer access.Viewer, req dto.FeedbackCreateRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.FeedbackResponse{}, err
	}
	if viewer.Anonymous() {
		return dto.FeedbackResponse{}, ErrForbidden
	}

	content := strings.TrimSpace(s.policy.Sanitize(req.Content))
	if content == "" {
		return dto.FeedbackResponse{}, errors.New("feedback content empty after sanitization")
	}

	item := models.Feedback{
		ProjectID: req.ProjectID,
		AuthorID:  viewer.UserID,
		Content:   content,
		Status:    models.FeedbackStatusOpen,
	}
	if err := s.feedback.Create(ctx, &item); err != nil {
		return dto.FeedbackResponse{}, err
	}

	created, err := s.feedback.FindByID(ctx, item.ID)
	if err != nil {
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().Uint("feedback_id", created.ID).Uint("project_id", created.ProjectID).Msg("feedback created")

	return dto.NewFeedbackResponse(created), nil
}

func (s *feedbackService) ListByProject(ctx context.Context, projectID uint, filter repository.FeedbackFilter) (dto.FeedbackListResponse, error) {
	items, total, err := s.feedback.ListByProject(ctx, projectID, filter)
	if err != nil {
		return dto.FeedbackListResponse{}, err
	}

	responses := make([]dto.FeedbackResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewFeedbackResponse(item))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	return dto.FeedbackListResponse{
		Items:      responses,
		Pagination: dto.NewPagination(total, limit, maxInt(filter.Offset, 0)),
	}, nil
}

func (s *feedbackService) UpdateStatus(ctx context.Context, id uint, viewer access.Viewer, status string) (dto.FeedbackResponse, error) {
	item, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackResponse{}, ErrNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	allowed := viewer.UserID == item.AuthorID || viewer.Role == models.RoleAdministrator
	if !allowed {
		return dto.FeedbackResponse{}, ErrForbidden
	}

	if !item.CanTransitionTo(status) {
		return dto.FeedbackResponse{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, item.Status, status)
	}

	if err := s.feedback.UpdateStatus(ctx, item.ID, status); err != nil {
		return dto.FeedbackResponse{}, err
	}
	item.Status = status

	s.logger.Info().Uint("feedback_id", item.ID).Str("status", status).Msg("feedback status updated")

	return dto.NewFeedbackResponse(item), nil
}

func (s *feedbackService) Reply(ctx context.Context, id uint, viewer access.Viewer, req dto.FeedbackReplyCreateRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.FeedbackResponse{}, err
	}
	if viewer.Anonymous() {
		return dto.FeedbackResponse{}, ErrForbidden
	}

	item, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackResponse{}, ErrNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	content := strings.TrimSpace(s.policy.Sanitize(req.Content))
	if content == "" {
		return dto.FeedbackResponse{}, errors.New("response content empty after sanitization")
	}

	response := models.FeedbackResponse{
		FeedbackID: item.ID,
		AuthorID:   viewer.UserID,
		Content:    content,
	}
	if err := s.feedback.AddResponse(ctx, &response); err != nil {
		return dto.FeedbackResponse{}, err
	}

	if s.notifier != nil && item.AuthorID != viewer.UserID {
		s.notifier.Notify(ctx, dto.NotificationCreateRequest{
			UserID:  item.AuthorID,
			Type:    "feedback.reply",
			Message: "Your feedback received a new response",
		})
	}

	updated, err := s.feedback.FindByID(ctx, item.ID)
	if err != nil {
		return dto.FeedbackResponse{}, err
	}

	return dto.NewFeedbackResponse(updated), nil
}
