package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

// ProjectService exposes project list and lifecycle operations.
type ProjectService interface {
	Get(ctx context.Context, id uint) (dto.ProjectResponse, error)
	ListByMember(ctx context.Context, userID uint, filter repository.ProjectFilter) (dto.ProjectListResponse, error)
	ListByAdvisor(ctx context.Context, advisorID uint, filter repository.ProjectFilter) (dto.ProjectListResponse, error)
	UpdateStatus(ctx context.Context, id uint, viewer access.Viewer, status string) (dto.ProjectResponse, error)
}

type projectService struct {
	projects   repository.ProjectRepository
	activities ActivityRecorder
	logger     zerolog.Logger
}

// NewProjectService constructs the project service.
func NewProjectService(projects repository.ProjectRepository, activities ActivityRecorder, logger zerolog.Logger) ProjectService {
	return &projectService{
		projects:   projects,
		activities: activities,
		logger:     logger.With().Str("component", "project_service").Logger(),
	}
}

func (s *projectService) Get(ctx context.Context, id uint) (dto.ProjectResponse, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrNotFound
		}
		return dto.ProjectResponse{}, err
	}

	stats, err := s.projects.Stats(ctx, project.ID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project, toProjectStats(stats)), nil
}

func (s *projectService) ListByMember(ctx context.Context, userID uint, filter repository.ProjectFilter) (dto.ProjectListResponse, error) {
	projects, total, err := s.projects.ListByMember(ctx, userID, filter)
	if err != nil {
		return dto.ProjectListResponse{}, err
	}
	return s.assemble(ctx, projects, total, filter)
}

func (s *projectService) ListByAdvisor(ctx context.Context, advisorID uint, filter repository.ProjectFilter) (dto.ProjectListResponse, error) {
	projects, total, err := s.projects.ListByAdvisor(ctx, advisorID, filter)
	if err != nil {
		return dto.ProjectListResponse{}, err
	}
	return s.assemble(ctx, projects, total, filter)
}

func (s *projectService) assemble(ctx context.Context, projects []models.Project, total int64, filter repository.ProjectFilter) (dto.ProjectListResponse, error) {
	items := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		stats, err := s.projects.Stats(ctx, project.ID)
		if err != nil {
			return dto.ProjectListResponse{}, err
		}
		items = append(items, dto.NewProjectResponse(project, toProjectStats(stats)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	return dto.ProjectListResponse{
		Items:      items,
		Pagination: dto.NewPagination(total, limit, maxInt(filter.Offset, 0)),
	}, nil
}

func (s *projectService) UpdateStatus(ctx context.Context, id uint, viewer access.Viewer, status string) (dto.ProjectResponse, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrNotFound
		}
		return dto.ProjectResponse{}, err
	}

	allowed := viewer.Role == models.RoleAdministrator ||
		(project.AdvisorID != nil && *project.AdvisorID == viewer.UserID)
	if !allowed {
		return dto.ProjectResponse{}, ErrForbidden
	}

	if !project.CanTransitionTo(status) {
		return dto.ProjectResponse{}, ErrInvalidTransition
	}

	if err := s.projects.UpdateStatus(ctx, project.ID, status); err != nil {
		return dto.ProjectResponse{}, err
	}
	project.Status = status

	if s.activities != nil {
		s.activities.Record(ctx, viewer.UserID, "project.status_changed", "project", &project.ID, map[string]interface{}{
			"status": status,
			"title":  project.Title,
		})
	}

	s.logger.Info().Uint("project_id", project.ID).Str("status", status).Msg("project status updated")

	stats, err := s.projects.Stats(ctx, project.ID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project, toProjectStats(stats)), nil
}

func toProjectStats(counts repository.ProjectCounts) dto.ProjectStats {
	return dto.ProjectStats{
		Tasks:        counts.Tasks,
		Repositories: counts.Repositories,
		Evaluations:  counts.Evaluations,
		Feedback:     counts.Feedback,
	}
}
