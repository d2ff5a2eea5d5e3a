package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/observability"
	"github.com/prp-platform/prp-api/internal/repository"
)

// AnnouncementService publishes and lists platform-wide broadcasts.
type AnnouncementService interface {
	Create(ctx context.Context, viewer access.Viewer, req dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	List(ctx context.Context, limit, offset int) (dto.AnnouncementListResponse, error)
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	cache         *redis.Client
	ttl           time.Duration
	policy        *bluemonday.Policy

	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAnnouncementService constructs the announcement service.
func NewAnnouncementService(announcements repository.AnnouncementRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) AnnouncementService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &announcementService{
		announcements: announcements,
		cache:         cache,
		ttl:           ttl,
		policy:        bluemonday.UGCPolicy(),
		validator:     validate,
		logger:        logger.With().Str("component", "announcement_service").Logger(),
	}
}

func (s *announcementService) Create(ctx context.Context, viewer access.Viewer, req dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if viewer.Role != models.RoleAdministrator {
		return dto.AnnouncementResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcementType := req.Type
	if announcementType == "" {
		announcementType = models.AnnouncementTypeInfo
	}

	announcement := models.Announcement{
		Title:    strings.TrimSpace(s.policy.Sanitize(req.Title)),
		Content:  strings.TrimSpace(s.policy.Sanitize(req.Content)),
		Priority: req.Priority,
		Type:     announcementType,
	}
	if err := s.announcements.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidate(ctx)

	s.logger.Info().Uint("announcement_id", announcement.ID).Int("priority", announcement.Priority).Msg("announcement published")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) List(ctx context.Context, limit, offset int) (dto.AnnouncementListResponse, error) {
	limit = clampLimit(limit, 20, 100)
	offset = maxInt(offset, 0)

	cacheKey := fmt.Sprintf("announcements:v1:%d:%d", limit, offset)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.AnnouncementListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				observability.AnnouncementCacheEvents().WithLabelValues("hit").Inc()
				response.CacheHit = true
				return response, nil
			}
		}
		observability.AnnouncementCacheEvents().WithLabelValues("miss").Inc()
	}

	items, total, err := s.announcements.List(ctx, limit, offset)
	if err != nil {
		return dto.AnnouncementListResponse{}, err
	}

	responses := make([]dto.AnnouncementResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewAnnouncementResponse(item))
	}

	response := dto.AnnouncementListResponse{
		Items:      responses,
		Pagination: dto.NewPagination(total, limit, offset),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache announcements")
			}
		}
	}

	return response, nil
}

// invalidate drops every cached announcement page. Pages are keyed by limit
// and offset so a SCAN over the prefix is required.
func (s *announcementService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, "announcements:v1:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate announcement cache entry")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("announcement cache invalidation scan failed")
	}
}
