package dto

import (
	"time"

	"github.com/prp-platform/prp-api/internal/models"
)

// NotificationResponse represents a notification in the dropdown and stream.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type,omitempty"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse pages notifications and carries the unread badge
// count alongside.
type NotificationListResponse struct {
	Items      []NotificationResponse `json:"items"`
	Unread     int64                  `json:"unread"`
	Pagination Pagination             `json:"pagination"`
}

// NotificationMarkReadRequest marks the listed notification ids as read.
// Ids arrive as strings per the client contract.
type NotificationMarkReadRequest struct {
	NotificationIDs []string `json:"notificationIds" validate:"required,min=1,dive,required"`
}

// NotificationMarkReadResponse reports the outcome of a mark-read call.
type NotificationMarkReadResponse struct {
	Updated int64 `json:"updated"`
	Unread  int64 `json:"unread"`
}

// NotificationCreateRequest describes an internally published notification.
type NotificationCreateRequest struct {
	UserID  uint   `json:"user_id" validate:"required"`
	Type    string `json:"type" validate:"required,max=64"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
	Link    string `json:"link" validate:"omitempty,max=512"`
}

// NewNotificationResponse converts a notification model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        model.ID,
		Type:      model.Type,
		Message:   model.Message,
		Link:      model.Link,
		Read:      model.Read,
		CreatedAt: model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewNotificationResponse(item))
	}
	return out
}
