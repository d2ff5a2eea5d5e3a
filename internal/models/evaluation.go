package models

import "time"

// Evaluation statuses. A pending evaluation is an assignment the evaluator has
// not submitted yet.
const (
	EvaluationStatusPending   = "PENDING"
	EvaluationStatusCompleted = "COMPLETED"
)

// Evaluation represents a scored assessment of a project by an evaluator.
// The qualitative category is derived from the score at read time and is
// intentionally not a column.
type Evaluation struct {
	ID              uint                  `gorm:"primaryKey" json:"id"`
	ProjectID       uint                  `gorm:"index;not null" json:"project_id"`
	Project         Project               `json:"project"`
	EvaluatorID     uint                  `gorm:"index;not null" json:"evaluator_id"`
	Evaluator       User                  `json:"evaluator"`
	Status          string                `gorm:"size:32;not null;default:PENDING;index" json:"status"`
	Score           float64               `gorm:"not null;default:0" json:"score"`
	OverallComments string                `gorm:"type:text" json:"overall_comments"`
	Criteria        []EvaluationCriterion `json:"criteria"`
	CompletedAt     *time.Time            `json:"completed_at"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// EvaluationCriterion is a single scored rubric row within an evaluation.
type EvaluationCriterion struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	EvaluationID uint    `gorm:"index;not null" json:"evaluation_id"`
	Name         string  `gorm:"size:255;not null" json:"name"`
	Score        float64 `gorm:"not null" json:"score"`
	MaxScore     float64 `gorm:"not null" json:"max_score"`
	Comment      string  `gorm:"type:text" json:"comment"`
}
