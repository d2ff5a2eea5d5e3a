package dto

import (
	"time"

	"github.com/prp-platform/prp-api/internal/models"
)

// ActivityResponse is one entry of a profile activity feed.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type,omitempty"`
	EntityID   *uint                  `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ActivityListResponse pages activity entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

// NewActivityResponse converts an activity log model into a DTO.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	response := ActivityResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.Metadata != nil {
		response.Metadata = map[string]interface{}(entry.Metadata)
	}
	return response
}
