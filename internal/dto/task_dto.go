package dto

import (
	"time"

	"github.com/prp-platform/prp-api/internal/models"
)

// TaskResponse is the task payload rendered in project and profile task lists.
// Overdue is derived from the deadline relative to the serving time.
type TaskResponse struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Status    string      `json:"status"`
	Priority  int         `json:"priority"`
	Deadline  *time.Time  `json:"deadline"`
	Overdue   bool        `json:"overdue"`
	Assignee  *UserRef    `json:"assignee,omitempty"`
	Creator   UserRef     `json:"creator"`
	Project   *ProjectRef `json:"project,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TaskListResponse pages task results.
type TaskListResponse struct {
	Items      []TaskResponse `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

// TaskStatusUpdateRequest moves a task to a new status.
type TaskStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=TODO IN_PROGRESS DONE BLOCKED"`
}

// NewTaskResponse converts a task model into a DTO, deriving overdue against
// the reference time.
func NewTaskResponse(task models.Task, reference time.Time) TaskResponse {
	response := TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Status:    task.Status,
		Priority:  task.Priority,
		Deadline:  task.Deadline,
		Overdue:   task.IsOverdue(reference),
		Creator:   NewUserRef(task.Creator),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
	if task.Assignee != nil {
		ref := NewUserRef(*task.Assignee)
		response.Assignee = &ref
	}
	if task.Project != nil {
		response.Project = &ProjectRef{ID: task.Project.ID, Title: task.Project.Title}
	}
	return response
}
