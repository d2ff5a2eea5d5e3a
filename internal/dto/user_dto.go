package dto

import (
	"time"

	"github.com/prp-platform/prp-api/internal/models"
)

// ProfileResponse is the full profile payload returned for a profile page.
// ViewerHasFullAccess is computed per request for the authenticated viewer.
type ProfileResponse struct {
	ID                  uint                   `json:"id"`
	Username            string                 `json:"username"`
	Name                string                 `json:"name"`
	Email               string                 `json:"email"`
	Role                string                 `json:"role"`
	ImageURL            string                 `json:"image_url,omitempty"`
	ProfileInfo         map[string]interface{} `json:"profile_info"`
	ViewerHasFullAccess bool                   `json:"viewerHasFullAccess"`
	CanEdit             bool                   `json:"can_edit"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// NewProfileResponse converts a user model into a profile payload.
func NewProfileResponse(user models.User, fullAccess, canEdit bool) ProfileResponse {
	info := map[string]interface{}{}
	for key, value := range user.ProfileInfo {
		info[key] = value
	}
	return ProfileResponse{
		ID:                  user.ID,
		Username:            user.Username,
		Name:                user.Name,
		Email:               user.Email,
		Role:                user.Role,
		ImageURL:            user.ImageURL,
		ProfileInfo:         info,
		ViewerHasFullAccess: fullAccess,
		CanEdit:             canEdit,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
}

// ProfileUpdateRequest carries owner-editable settings fields.
type ProfileUpdateRequest struct {
	Name        *string                `json:"name" validate:"omitempty,min=1,max=255"`
	Email       *string                `json:"email" validate:"omitempty,email,max=255"`
	ProfileInfo map[string]interface{} `json:"profile_info" validate:"omitempty"`
}

// ProfilePhotoResponse is returned after a successful avatar upload.
type ProfilePhotoResponse struct {
	ImageURL string `json:"image_url"`
}

// RatingStatsResponse aggregates the reviews left on a profile. Distribution
// keys are the star values 1 through 5.
type RatingStatsResponse struct {
	AverageRating      float64         `json:"averageRating"`
	TotalReviews       int64           `json:"totalReviews"`
	RatingDistribution map[int]int64   `json:"ratingDistribution"`
	RatingPercentages  map[int]float64 `json:"ratingPercentages"`
}
