package models

import "time"

// Feedback statuses. Transitions move forward one step at a time; a closed or
// addressed item may be reopened.
const (
	FeedbackStatusOpen      = "OPEN"
	FeedbackStatusAddressed = "ADDRESSED"
	FeedbackStatusClosed    = "CLOSED"
)

// Feedback represents an advisor or evaluator remark on a project, with a
// threaded list of responses.
type Feedback struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	ProjectID uint               `gorm:"index;not null" json:"project_id"`
	Project   Project            `json:"project"`
	AuthorID  uint               `gorm:"index;not null" json:"author_id"`
	Author    User               `json:"author"`
	Content   string             `gorm:"type:text;not null" json:"content"`
	Status    string             `gorm:"size:32;not null;default:OPEN;index" json:"status"`
	Responses []FeedbackResponse `json:"responses"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// FeedbackResponse is a reply within a feedback thread.
type FeedbackResponse struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FeedbackID uint      `gorm:"index;not null" json:"feedback_id"`
	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	Author     User      `json:"author"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CanTransitionTo reports whether a feedback item may move to the target
// status: OPEN→ADDRESSED→CLOSED stepwise, plus reopening back to OPEN.
func (f Feedback) CanTransitionTo(target string) bool {
	switch f.Status {
	case FeedbackStatusOpen:
		return target == FeedbackStatusAddressed
	case FeedbackStatusAddressed:
		return target == FeedbackStatusClosed || target == FeedbackStatusOpen
	case FeedbackStatusClosed:
		return target == FeedbackStatusOpen
	}
	return false
}
