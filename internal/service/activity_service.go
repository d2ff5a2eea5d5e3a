package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

// ActivityRecorder is the slice of ActivityService write path other services
// use to log events as a side effect.
type ActivityRecorder interface {
	Record(ctx context.Context, userID uint, action, entityType string, entityID *uint, metadata map[string]interface{})
}

// ActivityService records and lists profile activity feed entries.
type ActivityService interface {
	ActivityRecorder
	ListByUser(ctx context.Context, userID uint, limit, offset int) (dto.ActivityListResponse, error)
}

type activityService struct {
	activities repository.ActivityRepository
	logger     zerolog.Logger
}

// NewActivityService constructs the activity service.
func NewActivityService(activities repository.ActivityRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		activities: activities,
		logger:     logger.With().Str("component", "activity_service").Logger(),
	}
}

// Record persists a feed entry. Failures are logged and swallowed so the
// triggering operation is never rolled back over its own audit trail.
func (s *activityService) Record(ctx context.Context, userID uint, action, entityType string, entityID *uint, metadata map[string]interface{}) {
	entry := models.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSONMap(metadata)
	}

	if err := s.activities.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Str("action", action).Msg("failed to record activity")
	}
}

func (s *activityService) ListByUser(ctx context.Context, userID uint, limit, offset int) (dto.ActivityListResponse, error) {
	limit = clampLimit(limit, 20, 100)
	offset = maxInt(offset, 0)

	entries, total, err := s.activities.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{
		Items:      items,
		Pagination: dto.NewPagination(total, limit, offset),
	}, nil
}
