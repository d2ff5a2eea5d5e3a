package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prp-platform/prp-api/internal/models"
)

func TestAnnouncementRepositoryOrdersByPriorityThenRecency(t *testing.T) {
	db := setupTestDB(t, &models.Announcement{})
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	low := models.Announcement{Title: "Low", Content: "c", Priority: 0, CreatedAt: now}
	urgentOld := models.Announcement{Title: "Urgent old", Content: "c", Priority: 10, Type: models.AnnouncementTypeUrgent, CreatedAt: now.Add(-time.Hour)}
	urgentNew := models.Announcement{Title: "Urgent new", Content: "c", Priority: 10, Type: models.AnnouncementTypeUrgent, CreatedAt: now}
	require.NoError(t, db.Create(&low).Error)
	require.NoError(t, db.Create(&urgentOld).Error)
	require.NoError(t, db.Create(&urgentNew).Error)

	items, total, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	require.Equal(t, "Urgent new", items[0].Title)
	require.Equal(t, "Urgent old", items[1].Title)
	require.Equal(t, "Low", items[2].Title)
}
