package models

import "time"

// Project lifecycle statuses. Archived projects are terminal.
const (
	ProjectStatusActive    = "ACTIVE"
	ProjectStatusSubmitted = "SUBMITTED"
	ProjectStatusCompleted = "COMPLETED"
	ProjectStatusArchived  = "ARCHIVED"
)

// Group represents a student project group. GroupUserName is the handle used
// in repository routes.
type Group struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	GroupUserName string    `gorm:"size:64;uniqueIndex;not null" json:"group_user_name"`
	Members       []User    `gorm:"many2many:group_members" json:"members,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Project represents a final-year project owned by a group.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	GroupID     uint      `gorm:"index;not null" json:"group_id"`
	Group       Group     `json:"group"`
	AdvisorID   *uint     `gorm:"index" json:"advisor_id"`
	Advisor     *User     `json:"advisor,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidProjectStatus reports whether the value is a known project status.
func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusActive, ProjectStatusSubmitted, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether a project may move from its current status
// to the target one. Archived is terminal.
func (p Project) CanTransitionTo(target string) bool {
	if !ValidProjectStatus(target) {
		return false
	}
	if p.Status == ProjectStatusArchived {
		return false
	}
	return true
}
