package dto

import (
	"time"

	"github.com/prp-platform/prp-api/internal/models"
)

// ReviewResponse is a rating left on an advisor or evaluator profile.
type ReviewResponse struct {
	ID        uint      `json:"id"`
	Author    UserRef   `json:"author"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewListResponse pages reviews.
type ReviewListResponse struct {
	Items      []ReviewResponse `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// ReviewCreateRequest leaves a rating on a profile.
type ReviewCreateRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"max=2000"`
}

// NewReviewResponse converts a review model into a DTO.
func NewReviewResponse(review models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		Author:    NewUserRef(review.Author),
		Rating:    review.Rating,
		Content:   review.Content,
		CreatedAt: review.CreatedAt,
	}
}
