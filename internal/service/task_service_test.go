package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prp-platform/prp-api/internal/dto"
)

func deadlinePtr(t time.Time) *time.Time { return &t }

func taskTitles(items []dto.TaskResponse) []string {
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	return titles
}

func TestSortTasksByDeadlinePutsUndatedLast(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []dto.TaskResponse{
		{Title: "no deadline"},
		{Title: "late", Deadline: deadlinePtr(base.Add(48 * time.Hour))},
		{Title: "early", Deadline: deadlinePtr(base)},
	}

	SortTasks(items, TaskSort{By: TaskSortDeadline})
	require.Equal(t, []string{"early", "late", "no deadline"}, taskTitles(items))

	SortTasks(items, TaskSort{By: TaskSortDeadline, Descending: true})
	require.Equal(t, []string{"late", "early", "no deadline"}, taskTitles(items))
}

func TestSortTasksIsStableOnEqualKeys(t *testing.T) {
	items := []dto.TaskResponse{
		{ID: 1, Title: "first", Priority: 2},
		{ID: 2, Title: "second", Priority: 1},
		{ID: 3, Title: "third", Priority: 2},
		{ID: 4, Title: "fourth", Priority: 2},
	}

	SortTasks(items, TaskSort{By: TaskSortPriority})

	require.Equal(t, uint(2), items[0].ID)
	// Equal priorities keep their original relative order.
	require.Equal(t, []string{"second", "first", "third", "fourth"}, taskTitles(items))
}

func TestSortTasksByTitleIsCaseInsensitive(t *testing.T) {
	items := []dto.TaskResponse{
		{Title: "beta"},
		{Title: "Alpha"},
		{Title: "gamma"},
	}

	SortTasks(items, TaskSort{By: TaskSortTitle})
	require.Equal(t, []string{"Alpha", "beta", "gamma"}, taskTitles(items))

	SortTasks(items, TaskSort{By: "Title", Descending: true})
	require.Equal(t, []string{"gamma", "beta", "Alpha"}, taskTitles(items))
}

func TestSortTasksUnknownColumnLeavesOrder(t *testing.T) {
	items := []dto.TaskResponse{
		{Title: "b"},
		{Title: "a"},
	}

	SortTasks(items, TaskSort{By: "votes"})
	require.Equal(t, []string{"b", "a"}, taskTitles(items))
}
