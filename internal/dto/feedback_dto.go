package dto

import (
	"time"

	"github.com/prp-platform/prp-api/internal/models"
)

// FeedbackResponse is a feedback thread item with its responses.
type FeedbackResponse struct {
	ID        uint                    `json:"id"`
	ProjectID uint                    `json:"project_id"`
	Author    UserRef                 `json:"author"`
	Content   string                  `json:"content"`
	Status    string                  `json:"status"`
	Responses []FeedbackReplyResponse `json:"responses"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// FeedbackReplyResponse is a reply within a feedback thread.
type FeedbackReplyResponse struct {
	ID        uint      `json:"id"`
	Author    UserRef   `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackListResponse pages feedback threads.
type FeedbackListResponse struct {
	Items      []FeedbackResponse `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

// FeedbackCreateRequest opens a new feedback thread on a project.
type FeedbackCreateRequest struct {
	ProjectID uint   `json:"project_id" validate:"required"`
	Content   string `json:"content" validate:"required,min=1,max=5000"`
}

// FeedbackStatusUpdateRequest moves a thread through its lifecycle.
type FeedbackStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN ADDRESSED CLOSED"`
}

// FeedbackReplyCreateRequest adds a response to a thread.
type FeedbackReplyCreateRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

// NewFeedbackResponse converts a feedback model into a DTO.
func NewFeedbackResponse(item models.Feedback) FeedbackResponse {
	responses := make([]FeedbackReplyResponse, 0, len(item.Responses))
	for _, reply := range item.Responses {
		responses = append(responses, FeedbackReplyResponse{
			ID:        reply.ID,
			Author:    NewUserRef(reply.Author),
			Content:   reply.Content,
			CreatedAt: reply.CreatedAt,
		})
	}
	return FeedbackResponse{
		ID:        item.ID,
		ProjectID: item.ProjectID,
		Author:    NewUserRef(item.Author),
		Content:   item.Content,
		Status:    item.Status,
		Responses: responses,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
