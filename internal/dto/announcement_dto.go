package dto

import (
	"time"

	"github.com/prp-platform/prp-api/internal/models"
)

// AnnouncementResponse is a platform broadcast as rendered by clients.
type AnnouncementResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  int       `json:"priority"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// AnnouncementListResponse pages announcements. CacheHit is surfaced via the
// X-Cache-Hit header for diagnostics.
type AnnouncementListResponse struct {
	Items      []AnnouncementResponse `json:"items"`
	Pagination Pagination             `json:"pagination"`
	CacheHit   bool                   `json:"-"`
}

// AnnouncementCreateRequest publishes a new announcement.
type AnnouncementCreateRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Content  string `json:"content" validate:"required,min=1"`
	Priority int    `json:"priority" validate:"min=0,max=100"`
	Type     string `json:"type" validate:"omitempty,oneof=info warning success urgent"`
}

// NewAnnouncementResponse converts an announcement model into a DTO.
func NewAnnouncementResponse(item models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        item.ID,
		Title:     item.Title,
		Content:   item.Content,
		Priority:  item.Priority,
		Type:      item.Type,
		CreatedAt: item.CreatedAt,
	}
}
