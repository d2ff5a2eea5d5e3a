package models

import "time"

// Task statuses. A task holds exactly one status at a time.
const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
	TaskStatusBlocked    = "BLOCKED"
)

// Task represents a unit of project work. Priority is numeric; higher values
// are more urgent. Overdue is derived from the deadline, never stored.
type Task struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Status     string     `gorm:"size:32;not null;default:TODO;index" json:"status"`
	Priority   int        `gorm:"not null;default:0" json:"priority"`
	Deadline   *time.Time `json:"deadline"`
	AssigneeID *uint      `gorm:"index" json:"assignee_id"`
	Assignee   *User      `json:"assignee,omitempty"`
	CreatorID  uint       `gorm:"index;not null" json:"creator_id"`
	Creator    User       `json:"creator"`
	ProjectID  *uint      `gorm:"index" json:"project_id"`
	Project    *Project   `json:"project,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ValidTaskStatus reports whether the value is a known task status.
func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusBlocked:
		return true
	}
	return false
}

// IsOverdue returns true when the deadline has passed and the task is not done.
func (t Task) IsOverdue(reference time.Time) bool {
	if t.Deadline == nil || t.Status == TaskStatusDone {
		return false
	}
	return t.Deadline.Before(reference)
}
