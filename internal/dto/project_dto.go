package dto

import (
	"time"

	"github.com/prp-platform/prp-api/internal/models"
)

// ProjectStats counts the resources attached to a project.
type ProjectStats struct {
	Tasks        int64 `json:"tasks"`
	Repositories int64 `json:"repositories"`
	Evaluations  int64 `json:"evaluations"`
	Feedback     int64 `json:"feedback"`
}

// ProjectResponse is the project payload rendered on dashboards and lists.
type ProjectResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Group       GroupRef     `json:"group"`
	Advisor     *UserRef     `json:"advisor,omitempty"`
	Stats       ProjectStats `json:"stats"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProjectListResponse pages project results.
type ProjectListResponse struct {
	Items      []ProjectResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// ProjectStatusUpdateRequest moves a project to a new lifecycle status.
type ProjectStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUBMITTED COMPLETED ARCHIVED"`
}

// NewProjectResponse converts a project model plus computed stats into a DTO.
func NewProjectResponse(project models.Project, stats ProjectStats) ProjectResponse {
	response := ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		Group:       NewGroupRef(project.Group),
		Stats:       stats,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if project.Advisor != nil {
		ref := NewUserRef(*project.Advisor)
		response.Advisor = &ref
	}
	return response
}
