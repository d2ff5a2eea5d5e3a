package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

// ErrSelfReview indicates a user attempted to rate their own profile.
var ErrSelfReview = errors.New("cannot review your own profile")

// ReviewService exposes profile review and rating-stats operations.
type ReviewService interface {
	Create(ctx context.Context, subject models.User, viewer access.Viewer, req dto.ReviewCreateRequest) (dto.ReviewResponse, error)
	ListBySubject(ctx context.Context, subjectID uint, limit, offset int) (dto.ReviewListResponse, error)
	RatingStats(ctx context.Context, subjectID uint) (dto.RatingStatsResponse, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	cache   *redis.Client
	ttl     time.Duration
	policy  *bluemonday.Policy

	validator *validator.Validate
	logger    zerolog.Logger
}

// NewReviewService constructs the review service.
func NewReviewService(reviews repository.ReviewRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) ReviewService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &reviewService{
		reviews:   reviews,
		cache:     cache,
		ttl:       ttl,
		policy:    bluemonday.StrictPolicy(),
		validator: validate,
		logger:    logger.With().Str("component", "review_service").Logger(),
	}
}

func (s *reviewService) Create(ctx context.Context, subject models.User, viewer access.Viewer, req dto.ReviewCreateRequest) (dto.ReviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ReviewResponse{}, err
	}
	if viewer.Anonymous() {
		return dto.ReviewResponse{}, ErrForbidden
	}
	if viewer.UserID == subject.ID {
		return dto.ReviewResponse{}, ErrSelfReview
	}
	if subject.Role != models.RoleAdvisor && subject.Role != models.RoleEvaluator {
		return dto.ReviewResponse{}, ErrForbidden
	}

	review := models.Review{
		SubjectID: subject.ID,
		AuthorID:  viewer.UserID,
		Rating:    req.Rating,
		Content:   strings.TrimSpace(s.policy.Sanitize(req.Content)),
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		return dto.ReviewResponse{}, err
	}

	s.invalidateStats(ctx, subject.ID)

	s.logger.Info().Uint("subject_id", subject.ID).Int("rating", req.Rating).Msg("review created")

	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) ListBySubject(ctx context.Context, subjectID uint, limit, offset int) (dto.ReviewListResponse, error) {
	limit = clampLimit(limit, 20, 100)
	offset = maxInt(offset, 0)

	reviews, total, err := s.reviews.ListBySubject(ctx, subjectID, limit, offset)
	if err != nil {
		return dto.ReviewListResponse{}, err
	}

	items := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, dto.NewReviewResponse(review))
	}

	return dto.ReviewListResponse{
		Items:      items,
		Pagination: dto.NewPagination(total, limit, offset),
	}, nil
}

func (s *reviewService) RatingStats(ctx context.Context, subjectID uint) (dto.RatingStatsResponse, error) {
	cacheKey := s.statsCacheKey(subjectID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.RatingStatsResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	stats, err := s.reviews.StatsBySubject(ctx, subjectID)
	if err != nil {
		return dto.RatingStatsResponse{}, err
	}

	response := NewRatingStatsResponse(stats)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache rating stats")
			}
		}
	}

	return response, nil
}

func (s *reviewService) statsCacheKey(subjectID uint) string {
	return fmt.Sprintf("rating-stats:v1:%d", subjectID)
}

func (s *reviewService) invalidateStats(ctx context.Context, subjectID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.statsCacheKey(subjectID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate rating stats cache")
	}
}

// NewRatingStatsResponse derives the client payload, including the percentage
// share of each star bucket rounded to one decimal.
func NewRatingStatsResponse(stats repository.ReviewStats) dto.RatingStatsResponse {
	distribution := make(map[int]int64, 5)
	percentages := make(map[int]float64, 5)
	for star := 1; star <= 5; star++ {
		count := stats.Distribution[star]
		distribution[star] = count
		if stats.Total > 0 {
			percentages[star] = math.Round(float64(count)/float64(stats.Total)*1000) / 10
		} else {
			percentages[star] = 0
		}
	}

	return dto.RatingStatsResponse{
		AverageRating:      math.Round(stats.Average*10) / 10,
		TotalReviews:       stats.Total,
		RatingDistribution: distribution,
		RatingPercentages:  percentages,
	}
}
