package models

import "time"

// Announcement types drive icon and color choices in clients.
const (
	AnnouncementTypeInfo    = "info"
	AnnouncementTypeWarning = "warning"
	AnnouncementTypeSuccess = "success"
	AnnouncementTypeUrgent  = "urgent"
)

// Announcement is a platform-wide broadcast. Higher priority sorts first.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Priority  int       `gorm:"not null;default:0;index" json:"priority"`
	Type      string    `gorm:"size:32;default:info" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
