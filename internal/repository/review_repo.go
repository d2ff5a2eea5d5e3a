package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/models"
)

// ReviewStats aggregates the ratings left on one profile.
type ReviewStats struct {
	Average      float64
	Total        int64
	Distribution map[int]int64
}

// ReviewRepository exposes persistence helpers for profile reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListBySubject(ctx context.Context, subjectID uint, limit, offset int) ([]models.Review, int64, error)
	StatsBySubject(ctx context.Context, subjectID uint) (ReviewStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository constructs the repository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListBySubject(ctx context.Context, subjectID uint, limit, offset int) ([]models.Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("subject_id = ?", subjectID)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	if err := query.
		Preload("Author").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) StatsBySubject(ctx context.Context, subjectID uint) (ReviewStats, error) {
	stats := ReviewStats{Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}

	type bucket struct {
		Rating int
		Count  int64
	}
	var buckets []bucket
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("subject_id = ?", subjectID).
		Group("rating").
		Scan(&buckets).Error; err != nil {
		return ReviewStats{}, err
	}

	var sum int64
	for _, b := range buckets {
		if b.Rating < 1 || b.Rating > 5 {
			continue
		}
		stats.Distribution[b.Rating] = b.Count
		stats.Total += b.Count
		sum += int64(b.Rating) * b.Count
	}
	if stats.Total > 0 {
		stats.Average = float64(sum) / float64(stats.Total)
	}

	return stats, nil
}
