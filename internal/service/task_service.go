package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

// Task sort columns accepted by list endpoints.
const (
	TaskSortPriority = "priority"
	TaskSortDeadline = "deadline"
	TaskSortTitle    = "title"
	TaskSortCreated  = "created"
)

// TaskSort describes the requested ordering of a task list.
type TaskSort struct {
	By         string
	Descending bool
}

// TaskService exposes task list and status operations.
type TaskService interface {
	ListByUser(ctx context.Context, userID uint, filter repository.TaskFilter, order TaskSort) (dto.TaskListResponse, error)
	ListByProject(ctx context.Context, projectID uint, filter repository.TaskFilter, order TaskSort) (dto.TaskListResponse, error)
	UpdateStatus(ctx context.Context, id uint, viewer access.Viewer, status string) (dto.TaskResponse, error)
}

type taskService struct {
	tasks  repository.TaskRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewTaskService constructs the task service.
func NewTaskService(tasks repository.TaskRepository, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:  tasks,
		now:    time.Now,
		logger: logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) ListByUser(ctx context.Context, userID uint, filter repository.TaskFilter, order TaskSort) (dto.TaskListResponse, error) {
	tasks, total, err := s.tasks.ListByUser(ctx, userID, filter)
	if err != nil {
		return dto.TaskListResponse{}, err
	}
	return s.assemble(tasks, total, filter, order), nil
}

func (s *taskService) ListByProject(ctx context.Context, projectID uint, filter repository.TaskFilter, order TaskSort) (dto.TaskListResponse, error) {
	tasks, total, err := s.tasks.ListByProject(ctx, projectID, filter)
	if err != nil {
		return dto.TaskListResponse{}, err
	}
	return s.assemble(tasks, total, filter, order), nil
}

func (s *taskService) assemble(tasks []models.Task, total int64, filter repository.TaskFilter, order TaskSort) dto.TaskListResponse {
	reference := s.now()
	items := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, dto.NewTaskResponse(task, reference))
	}

	SortTasks(items, order)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	return dto.TaskListResponse{
		Items:      items,
		Pagination: dto.NewPagination(total, limit, maxInt(filter.Offset, 0)),
	}
}

func (s *taskService) UpdateStatus(ctx context.Context, id uint, viewer access.Viewer, status string) (dto.TaskResponse, error) {
	if !models.ValidTaskStatus(status) {
		return dto.TaskResponse{}, ErrInvalidTransition
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrNotFound
		}
		return dto.TaskResponse{}, err
	}

	allowed := viewer.UserID == task.CreatorID ||
		(task.AssigneeID != nil && *task.AssigneeID == viewer.UserID) ||
		viewer.Role == models.RoleAdministrator
	if !allowed {
		return dto.TaskResponse{}, ErrForbidden
	}

	if err := s.tasks.UpdateStatus(ctx, task.ID, status); err != nil {
		return dto.TaskResponse{}, err
	}
	task.Status = status

	s.logger.Info().Uint("task_id", task.ID).Str("status", status).Msg("task status updated")

	return dto.NewTaskResponse(task, s.now()), nil
}

// SortTasks orders a task page in place. The sort is stable, so records with
// equal keys keep their fetch order, and an unknown column leaves the page
// untouched.
func SortTasks(items []dto.TaskResponse, order TaskSort) {
	var less func(a, b dto.TaskResponse) bool

	switch strings.ToLower(strings.TrimSpace(order.By)) {
	case TaskSortPriority:
		less = func(a, b dto.TaskResponse) bool { return a.Priority < b.Priority }
	case TaskSortDeadline:
		// Tasks without a deadline sort after dated ones in either direction,
		// so the nil check stays outside the descending flip.
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i], items[j]
			if a.Deadline == nil || b.Deadline == nil {
				return a.Deadline != nil && b.Deadline == nil
			}
			if order.Descending {
				return b.Deadline.Before(*a.Deadline)
			}
			return a.Deadline.Before(*b.Deadline)
		})
		return
	case TaskSortTitle:
		less = func(a, b dto.TaskResponse) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case TaskSortCreated:
		less = func(a, b dto.TaskResponse) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		if order.Descending {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
