package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records a user-visible event for the profile activity feed.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"index;not null" json:"user_id"`
	Action     string            `gorm:"size:128;not null" json:"action"`
	EntityType string            `gorm:"size:64" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}
