package dto

import "time"

// CriterionResponse is a single rubric row within an evaluation payload.
type CriterionResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Comment  string  `json:"comment,omitempty"`
}

// EvaluationResponse is the completed-evaluation payload. Category is always
// recomputed from the score when the DTO is built.
type EvaluationResponse struct {
	ID              uint                `json:"id"`
	ProjectID       uint                `json:"project_id"`
	ProjectTitle    string              `json:"projectTitle"`
	GroupName       string              `json:"groupName"`
	Score           float64             `json:"score"`
	Category        string              `json:"category"`
	Criteria        []CriterionResponse `json:"criteria"`
	OverallComments string              `json:"overallComments,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at"`
	CreatedAt       time.Time           `json:"created_at"`
}

// EvaluationListResponse pages evaluation results.
type EvaluationListResponse struct {
	Items      []EvaluationResponse `json:"items"`
	Pagination Pagination           `json:"pagination"`
}

// PendingEvaluationResponse describes an assignment the evaluator has not
// submitted yet.
type PendingEvaluationResponse struct {
	ID           uint      `json:"id"`
	ProjectID    uint      `json:"project_id"`
	ProjectTitle string    `json:"projectTitle"`
	GroupName    string    `json:"groupName"`
	AssignedAt   time.Time `json:"assigned_at"`
}

// CriterionInput is one scored rubric row in a submission.
type CriterionInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	Score    float64 `json:"score" validate:"min=0"`
	MaxScore float64 `json:"max_score" validate:"gt=0"`
	Comment  string  `json:"comment" validate:"max=2000"`
}

// EvaluationSubmitRequest completes a pending evaluation.
type EvaluationSubmitRequest struct {
	Criteria        []CriterionInput `json:"criteria" validate:"required,min=1,dive"`
	OverallComments string           `json:"overallComments" validate:"max=5000"`
}
