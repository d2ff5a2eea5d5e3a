package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectArchivedIsTerminal(t *testing.T) {
	project := Project{Status: ProjectStatusArchived}

	for _, target := range []string{ProjectStatusActive, ProjectStatusSubmitted, ProjectStatusCompleted} {
		require.False(t, project.CanTransitionTo(target), "archived project moved to %s", target)
	}
}

func TestProjectRejectsUnknownStatus(t *testing.T) {
	project := Project{Status: ProjectStatusActive}

	require.False(t, project.CanTransitionTo("PAUSED"))
	require.True(t, project.CanTransitionTo(ProjectStatusSubmitted))
}
