package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/service"
)

type stubProfiles struct {
	users  map[string]models.User
	getErr map[string]error
}

func (s *stubProfiles) Get(ctx context.Context, username string, viewer access.Viewer) (dto.ProfileResponse, error) {
	if err, ok := s.getErr[username]; ok {
		return dto.ProfileResponse{}, err
	}
	user, ok := s.users[username]
	if !ok {
		return dto.ProfileResponse{}, service.ErrNotFound
	}
	return dto.ProfileResponse{ID: user.ID, Username: user.Username}, nil
}

func (s *stubProfiles) Update(ctx context.Context, username string, viewer access.Viewer, req dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	return dto.ProfileResponse{}, service.ErrForbidden
}

func (s *stubProfiles) UploadPhoto(ctx context.Context, username string, viewer access.Viewer, file *multipart.FileHeader) (dto.ProfilePhotoResponse, error) {
	return dto.ProfilePhotoResponse{}, service.ErrPhotoNotImage
}

func (s *stubProfiles) ResolveUser(ctx context.Context, username string) (models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return models.User{}, service.ErrNotFound
	}
	return user, nil
}

func (s *stubProfiles) FullAccess(ctx context.Context, owner models.User, viewer access.Viewer) (bool, error) {
	return false, nil
}

type stubNotifications struct {
	markReadUser uint
	markReadReq  dto.NotificationMarkReadRequest
}

func (s *stubNotifications) Notify(ctx context.Context, payload dto.NotificationCreateRequest) {}

func (s *stubNotifications) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func (s *stubNotifications) List(ctx context.Context, userID uint, limit, offset int) (dto.NotificationListResponse, error) {
	return dto.NotificationListResponse{Unread: 3}, nil
}

func (s *stubNotifications) MarkRead(ctx context.Context, userID uint, req dto.NotificationMarkReadRequest) (dto.NotificationMarkReadResponse, error) {
	s.markReadUser = userID
	s.markReadReq = req
	return dto.NotificationMarkReadResponse{Updated: 2, Unread: 1}, nil
}

func (s *stubNotifications) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	channel := make(chan dto.NotificationResponse)
	return channel, func() {}
}

func (s *stubNotifications) Start(ctx context.Context) {}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newUserTestApp(profiles service.ProfileService, notifications service.NotificationService, viewer access.Viewer) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if viewer.UserID != 0 {
			c.Locals("user_id", viewer.UserID)
			c.Locals("user_role", viewer.Role)
		}
		return c.Next()
	})

	handler := NewUserHandler(profiles, nil, nil, nil, nil, notifications, zerolog.Nop())
	handler.Register(app.Group("/users"))
	return app
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestProfileForbiddenIsDistinctFromNotFound(t *testing.T) {
	profiles := &stubProfiles{
		users:  map[string]models.User{"prof.ada": {ID: 7, Username: "prof.ada"}},
		getErr: map[string]error{"prof.ada": service.ErrForbidden},
	}
	app := newUserTestApp(profiles, &stubNotifications{}, access.Viewer{UserID: 3, Role: models.RoleStudent})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/prof.ada", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	forbidden := decodeEnvelope(t, resp)
	require.False(t, forbidden.Success)
	require.Equal(t, "forbidden", forbidden.Error)
	require.Equal(t, "you do not have permission to view this profile", forbidden.Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/users/ghost", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	missing := decodeEnvelope(t, resp)
	require.Equal(t, "not_found", missing.Error)
	require.Equal(t, "profile not found", missing.Message)
}

func TestMarkNotificationsReadAsOwner(t *testing.T) {
	profiles := &stubProfiles{users: map[string]models.User{"jdoe": {ID: 5, Username: "jdoe"}}}
	notifications := &stubNotifications{}
	app := newUserTestApp(profiles, notifications, access.Viewer{UserID: 5, Role: models.RoleStudent})

	payload, err := json.Marshal(dto.NotificationMarkReadRequest{NotificationIDs: []string{"10", "11"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/users/jdoe/notifications", bytes.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	require.True(t, body.Success)
	require.Equal(t, uint(5), notifications.markReadUser)
	require.Equal(t, []string{"10", "11"}, notifications.markReadReq.NotificationIDs)

	var result dto.NotificationMarkReadResponse
	require.NoError(t, json.Unmarshal(body.Data, &result))
	require.Equal(t, int64(2), result.Updated)
	require.Equal(t, int64(1), result.Unread)
}

func TestNotificationsDeniedForOtherUsers(t *testing.T) {
	profiles := &stubProfiles{users: map[string]models.User{"jdoe": {ID: 5, Username: "jdoe"}}}
	app := newUserTestApp(profiles, &stubNotifications{}, access.Viewer{UserID: 6, Role: models.RoleStudent})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/jdoe/notifications", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	require.Equal(t, "you do not have permission to view these notifications", body.Message)
}

func TestNotificationsAllowedForAdministrator(t *testing.T) {
	profiles := &stubProfiles{users: map[string]models.User{"jdoe": {ID: 5, Username: "jdoe"}}}
	app := newUserTestApp(profiles, &stubNotifications{}, access.Viewer{UserID: 1, Role: models.RoleAdministrator})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/jdoe/notifications", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
