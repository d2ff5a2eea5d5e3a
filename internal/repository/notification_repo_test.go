package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/models"
)

func TestNotificationRepositoryPaginationDoesNotOverlap(t *testing.T) {
	db := setupTestDB(t, &models.Notification{})
	repo := NewNotificationRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		n := models.Notification{UserID: 1, Message: "event", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, db.Create(&n).Error)
	}

	first, total, err := repo.ListByUser(context.Background(), 1, 2, 0)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, first, 2)

	second, _, err := repo.ListByUser(context.Background(), 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)

	seen := map[uint]bool{}
	for _, n := range append(first, second...) {
		require.False(t, seen[n.ID], "id %d returned twice across pages", n.ID)
		seen[n.ID] = true
	}
}

func TestNotificationRepositoryMarkReadOnlyCountsUnread(t *testing.T) {
	db := setupTestDB(t, &models.Notification{})
	repo := NewNotificationRepository(db)

	unread := models.Notification{UserID: 1, Message: "new"}
	alreadyRead := models.Notification{UserID: 1, Message: "old", Read: true}
	otherUser := models.Notification{UserID: 2, Message: "foreign"}
	require.NoError(t, db.Create(&unread).Error)
	require.NoError(t, db.Create(&alreadyRead).Error)
	require.NoError(t, db.Create(&otherUser).Error)

	updated, err := repo.MarkRead(context.Background(), 1, []uint{unread.ID, alreadyRead.ID, otherUser.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), updated)

	count, err := repo.CountUnread(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	count, err = repo.CountUnread(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), count, "other user's notification must stay unread")
}

func setupTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}
