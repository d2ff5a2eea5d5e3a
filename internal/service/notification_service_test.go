package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
)

type stubNotificationRepo struct {
	notifications map[uint]*models.Notification
	nextID        uint
	markedIDs     []uint
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{notifications: map[uint]*models.Notification{}, nextID: 1}
}

func (r *stubNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = r.nextID
	r.nextID++
	stored := *notification
	r.notifications[stored.ID] = &stored
	return nil
}

func (r *stubNotificationRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, int64, error) {
	items := make([]models.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			items = append(items, *n)
		}
	}
	return items, int64(len(items)), nil
}

func (r *stubNotificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var unread int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			unread++
		}
	}
	return unread, nil
}

func (r *stubNotificationRepo) MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	var updated int64
	for _, id := range ids {
		n, ok := r.notifications[id]
		if !ok || n.UserID != userID || n.Read {
			continue
		}
		n.Read = true
		updated++
		r.markedIDs = append(r.markedIDs, id)
	}
	return updated, nil
}

func newTestNotificationService(repo *stubNotificationRepo) NotificationService {
	return NewNotificationService(repo, nil, "", nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestNotificationMarkReadIsIdempotent(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotificationService(repo)

	for i := 0; i < 3; i++ {
		_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
			UserID:  1,
			Type:    "task.assigned",
			Message: "You were assigned a task",
		})
		require.NoError(t, err)
	}

	req := dto.NotificationMarkReadRequest{NotificationIDs: []string{"1", "2"}}

	first, err := svc.MarkRead(context.Background(), 1, req)
	require.NoError(t, err)
	require.Equal(t, int64(2), first.Updated)
	require.Equal(t, int64(1), first.Unread)

	second, err := svc.MarkRead(context.Background(), 1, req)
	require.NoError(t, err)
	require.Equal(t, int64(0), second.Updated, "repeating the call must not count already-read rows")
	require.Equal(t, int64(1), second.Unread)
}

func TestNotificationMarkReadSkipsMalformedIDs(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotificationService(repo)

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  1,
		Type:    "feedback.response",
		Message: "Your feedback got a response",
	})
	require.NoError(t, err)

	resp, err := svc.MarkRead(context.Background(), 1, dto.NotificationMarkReadRequest{
		NotificationIDs: []string{"abc", " 1 ", "-4"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Updated)
	require.Equal(t, []uint{1}, repo.markedIDs)
}

func TestNotificationPublishDeliversToSubscriber(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotificationService(repo)

	stream, cancel := svc.Subscribe(1)
	defer cancel()

	published, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  1,
		Type:    "announcement.created",
		Message: "Midterm schedule published",
	})
	require.NoError(t, err)

	select {
	case received := <-stream:
		require.Equal(t, published.ID, received.ID)
		require.Equal(t, "Midterm schedule published", received.Message)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast notification")
	}
}

func TestNotificationPublishDoesNotCrossUsers(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotificationService(repo)

	stream, cancel := svc.Subscribe(2)
	defer cancel()

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  1,
		Type:    "task.assigned",
		Message: "Not for user two",
	})
	require.NoError(t, err)

	select {
	case received := <-stream:
		t.Fatalf("user 2 received a foreign notification: %+v", received)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotificationPublishSanitizesMessage(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := newTestNotificationService(repo)

	resp, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  1,
		Type:    "announcement.created",
		Message: "<b>Deadline</b> moved to Friday",
	})
	require.NoError(t, err)
	require.Equal(t, "Deadline moved to Friday", resp.Message)

	_, err = svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  1,
		Type:    "announcement.created",
		Message: "<img src=x>",
	})
	require.Error(t, err, "markup-only messages are rejected")
}
