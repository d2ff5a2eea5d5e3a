package models

import (
	"time"

	"gorm.io/datatypes"
)

// Roles recognised by the platform.
const (
	RoleStudent       = "STUDENT"
	RoleAdvisor       = "ADVISOR"
	RoleEvaluator     = "EVALUATOR"
	RoleAdministrator = "ADMINISTRATOR"
)

// User represents a platform account: students, advisors, evaluators and administrators.
type User struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Username    string            `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Email       string            `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role        string            `gorm:"size:32;not null;index" json:"role"`
	ImageURL    string            `gorm:"size:512" json:"image_url"`
	ProfileInfo datatypes.JSONMap `gorm:"type:json" json:"profile_info"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProfileAccessGrant records delegated full access over a profile, e.g. a
// coordinator granted management rights over an advisor's page.
type ProfileAccessGrant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	GranteeID uint      `gorm:"index;not null" json:"grantee_id"`
	CreatedAt time.Time `json:"created_at"`
}
