package models

import "time"

// Repository represents a code repository owned by a project group. Commit and
// tree data is served live from the git daemon and never persisted here.
type Repository struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:128;not null;index:idx_repo_group_name,unique" json:"name"`
	GroupID       uint      `gorm:"not null;index:idx_repo_group_name,unique" json:"group_id"`
	Group         Group     `json:"group"`
	Description   string    `gorm:"type:text" json:"description"`
	IsPrivate     bool      `gorm:"not null;default:false" json:"is_private"`
	DefaultBranch string    `gorm:"size:128;default:main" json:"default_branch"`
	ProjectID     *uint     `gorm:"index" json:"project_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
