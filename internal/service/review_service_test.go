package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

type stubReviewRepo struct {
	stats      repository.ReviewStats
	statsCalls int
	created    []models.Review
}

func (r *stubReviewRepo) Create(ctx context.Context, review *models.Review) error {
	review.ID = uint(len(r.created) + 1)
	r.created = append(r.created, *review)
	return nil
}

func (r *stubReviewRepo) ListBySubject(ctx context.Context, subjectID uint, limit, offset int) ([]models.Review, int64, error) {
	return nil, 0, nil
}

func (r *stubReviewRepo) StatsBySubject(ctx context.Context, subjectID uint) (repository.ReviewStats, error) {
	r.statsCalls++
	return r.stats, nil
}

func newReviewCache(t *testing.T) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: server.Addr()})
}

func TestRatingStatsPercentages(t *testing.T) {
	resp := NewRatingStatsResponse(repository.ReviewStats{
		Average: 4.0,
		Total:   10,
		Distribution: map[int]int64{
			3: 2,
			4: 4,
			5: 4,
		},
	})

	// 4 of 10 reviews are five-star, so the bucket reports 40 percent.
	require.Equal(t, 40.0, resp.RatingPercentages[5])
	require.Equal(t, 40.0, resp.RatingPercentages[4])
	require.Equal(t, 20.0, resp.RatingPercentages[3])
	require.Equal(t, 0.0, resp.RatingPercentages[1])
	require.Equal(t, int64(0), resp.RatingDistribution[1])
	require.Equal(t, int64(10), resp.TotalReviews)
}

func TestRatingStatsEmptySubject(t *testing.T) {
	resp := NewRatingStatsResponse(repository.ReviewStats{Distribution: map[int]int64{}})

	require.Equal(t, 0.0, resp.AverageRating)
	require.Equal(t, int64(0), resp.TotalReviews)
	for star := 1; star <= 5; star++ {
		require.Equal(t, 0.0, resp.RatingPercentages[star])
	}
}

func TestRatingStatsServedFromCache(t *testing.T) {
	repo := &stubReviewRepo{stats: repository.ReviewStats{Average: 4.2, Total: 5, Distribution: map[int]int64{5: 5}}}
	svc := NewReviewService(repo, newReviewCache(t), 0, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	first, err := svc.RatingStats(context.Background(), 7)
	require.NoError(t, err)
	second, err := svc.RatingStats(context.Background(), 7)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, repo.statsCalls, "second read should hit the cache")
}

func TestReviewCreateInvalidatesStatsCache(t *testing.T) {
	repo := &stubReviewRepo{stats: repository.ReviewStats{Average: 5, Total: 1, Distribution: map[int]int64{5: 1}}}
	svc := NewReviewService(repo, newReviewCache(t), 0, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.RatingStats(context.Background(), 7)
	require.NoError(t, err)

	subject := models.User{ID: 7, Role: models.RoleAdvisor}
	viewer := access.Viewer{UserID: 3, Role: models.RoleStudent}
	_, err = svc.Create(context.Background(), subject, viewer, dto.ReviewCreateRequest{Rating: 4, Content: "helpful"})
	require.NoError(t, err)

	_, err = svc.RatingStats(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 2, repo.statsCalls, "create should drop the cached stats")
}

func TestReviewCreateRejectsSelfReview(t *testing.T) {
	svc := NewReviewService(&stubReviewRepo{}, nil, 0, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	subject := models.User{ID: 3, Role: models.RoleAdvisor}
	viewer := access.Viewer{UserID: 3, Role: models.RoleAdvisor}
	_, err := svc.Create(context.Background(), subject, viewer, dto.ReviewCreateRequest{Rating: 5})
	require.ErrorIs(t, err, ErrSelfReview)
}

func TestReviewCreateRequiresStaffSubject(t *testing.T) {
	svc := NewReviewService(&stubReviewRepo{}, nil, 0, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	subject := models.User{ID: 8, Role: models.RoleStudent}
	viewer := access.Viewer{UserID: 3, Role: models.RoleStudent}
	_, err := svc.Create(context.Background(), subject, viewer, dto.ReviewCreateRequest{Rating: 5})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestReviewCreateStripsMarkup(t *testing.T) {
	repo := &stubReviewRepo{}
	svc := NewReviewService(repo, nil, 0, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	subject := models.User{ID: 8, Role: models.RoleEvaluator}
	viewer := access.Viewer{UserID: 3, Role: models.RoleStudent}
	resp, err := svc.Create(context.Background(), subject, viewer, dto.ReviewCreateRequest{
		Rating:  4,
		Content: "<script>alert(1)</script>great mentor",
	})
	require.NoError(t, err)
	require.Equal(t, "great mentor", resp.Content)
	require.Len(t, repo.created, 1)
}
