package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

const dashboardPreviewSize = 5

// DashboardService assembles the per-role landing page summaries.
type DashboardService interface {
	Student(ctx context.Context, userID uint) (dto.StudentDashboardResponse, error)
	Advisor(ctx context.Context, advisorID uint) (dto.AdvisorDashboardResponse, error)
	Evaluator(ctx context.Context, evaluatorID uint) (dto.EvaluatorDashboardResponse, error)
}

type dashboardService struct {
	projects    repository.ProjectRepository
	tasks       repository.TaskRepository
	evaluations repository.EvaluationRepository
	feedback    repository.FeedbackRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(projects repository.ProjectRepository, tasks repository.TaskRepository, evaluations repository.EvaluationRepository, feedback repository.FeedbackRepository, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		projects:    projects,
		tasks:       tasks,
		evaluations: evaluations,
		feedback:    feedback,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *dashboardService) Student(ctx context.Context, userID uint) (dto.StudentDashboardResponse, error) {
	_, total, err := s.projects.ListByMember(ctx, userID, repository.ProjectFilter{Limit: 1})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	_, active, err := s.projects.ListByMember(ctx, userID, repository.ProjectFilter{
		Status: models.ProjectStatusActive,
		Limit:  1,
	})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	openTasks, err := s.tasks.CountOpenByUser(ctx, userID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	reference := s.now()
	overdueTasks, err := s.tasks.CountOverdueByUser(ctx, userID, reference)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	upcoming, _, err := s.tasks.ListByUser(ctx, userID, repository.TaskFilter{Limit: dashboardPreviewSize})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	tasks := make([]dto.TaskResponse, 0, len(upcoming))
	for _, task := range upcoming {
		tasks = append(tasks, dto.NewTaskResponse(task, reference))
	}
	SortTasks(tasks, TaskSort{By: TaskSortDeadline})

	return dto.StudentDashboardResponse{
		ActiveProjects: active,
		TotalProjects:  total,
		OpenTasks:      openTasks,
		OverdueTasks:   overdueTasks,
		UpcomingTasks:  tasks,
	}, nil
}

func (s *dashboardService) Advisor(ctx context.Context, advisorID uint) (dto.AdvisorDashboardResponse, error) {
	advisees, err := s.projects.CountAdvisees(ctx, advisorID)
	if err != nil {
		return dto.AdvisorDashboardResponse{}, err
	}

	active, err := s.projects.CountByAdvisor(ctx, advisorID, models.ProjectStatusActive)
	if err != nil {
		return dto.AdvisorDashboardResponse{}, err
	}

	recent, _, err := s.projects.ListByAdvisor(ctx, advisorID, repository.ProjectFilter{Limit: dashboardPreviewSize})
	if err != nil {
		return dto.AdvisorDashboardResponse{}, err
	}

	openFeedback, err := s.feedback.CountOpenByAuthor(ctx, advisorID)
	if err != nil {
		return dto.AdvisorDashboardResponse{}, err
	}

	projects := make([]dto.ProjectResponse, 0, len(recent))
	for _, project := range recent {
		counts, err := s.projects.Stats(ctx, project.ID)
		if err != nil {
			s.logger.Warn().Err(err).Uint("project_id", project.ID).Msg("failed to load project stats")
			counts = repository.ProjectCounts{}
		}
		projects = append(projects, dto.NewProjectResponse(project, dto.ProjectStats{
			Tasks:        counts.Tasks,
			Repositories: counts.Repositories,
			Evaluations:  counts.Evaluations,
			Feedback:     counts.Feedback,
		}))
	}

	return dto.AdvisorDashboardResponse{
		Advisees:       advisees,
		ActiveProjects: active,
		OpenFeedback:   openFeedback,
		RecentProjects: projects,
	}, nil
}

func (s *dashboardService) Evaluator(ctx context.Context, evaluatorID uint) (dto.EvaluatorDashboardResponse, error) {
	pendingCount, err := s.evaluations.CountByEvaluator(ctx, evaluatorID, models.EvaluationStatusPending)
	if err != nil {
		return dto.EvaluatorDashboardResponse{}, err
	}

	completedCount, err := s.evaluations.CountByEvaluator(ctx, evaluatorID, models.EvaluationStatusCompleted)
	if err != nil {
		return dto.EvaluatorDashboardResponse{}, err
	}

	average, err := s.evaluations.AverageScoreByEvaluator(ctx, evaluatorID)
	if err != nil {
		return dto.EvaluatorDashboardResponse{}, err
	}

	pending, _, err := s.evaluations.ListByEvaluator(ctx, evaluatorID, repository.EvaluationFilter{
		Status: models.EvaluationStatusPending,
		Limit:  dashboardPreviewSize,
	})
	if err != nil {
		return dto.EvaluatorDashboardResponse{}, err
	}

	items := make([]dto.PendingEvaluationResponse, 0, len(pending))
	for _, evaluation := range pending {
		items = append(items, dto.PendingEvaluationResponse{
			ID:           evaluation.ID,
			ProjectID:    evaluation.ProjectID,
			ProjectTitle: evaluation.Project.Title,
			GroupName:    evaluation.Project.Group.Name,
			AssignedAt:   evaluation.CreatedAt,
		})
	}

	return dto.EvaluatorDashboardResponse{
		PendingEvaluations:   pendingCount,
		CompletedEvaluations: completedCount,
		AverageScore:         math.Round(average*10) / 10,
		Pending:              items,
	}, nil
}
