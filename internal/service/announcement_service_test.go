package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
)

type stubAnnouncementRepo struct {
	items     []models.Announcement
	listCalls int
}

func (r *stubAnnouncementRepo) Create(ctx context.Context, announcement *models.Announcement) error {
	announcement.ID = uint(len(r.items) + 1)
	r.items = append(r.items, *announcement)
	return nil
}

func (r *stubAnnouncementRepo) List(ctx context.Context, limit, offset int) ([]models.Announcement, int64, error) {
	r.listCalls++
	return r.items, int64(len(r.items)), nil
}

func newAnnouncementService(t *testing.T, repo *stubAnnouncementRepo) AnnouncementService {
	t.Helper()
	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	return NewAnnouncementService(repo, cache, 0, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestAnnouncementListCachesPages(t *testing.T) {
	repo := &stubAnnouncementRepo{items: []models.Announcement{{ID: 1, Title: "Welcome", Type: models.AnnouncementTypeInfo}}}
	svc := newAnnouncementService(t, repo)

	first, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Items, second.Items)
	require.Equal(t, 1, repo.listCalls)

	// A different page misses independently.
	third, err := svc.List(context.Background(), 20, 20)
	require.NoError(t, err)
	require.False(t, third.CacheHit)
}

func TestAnnouncementCreateDropsCachedPages(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	svc := newAnnouncementService(t, repo)

	_, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)

	admin := access.Viewer{UserID: 1, Role: models.RoleAdministrator}
	_, err = svc.Create(context.Background(), admin, dto.AnnouncementCreateRequest{
		Title:   "Defense week",
		Content: "Defenses run May 11 to May 15",
	})
	require.NoError(t, err)

	refreshed, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.False(t, refreshed.CacheHit, "create must invalidate cached pages")
	require.Len(t, refreshed.Items, 1)
}

func TestAnnouncementCreateRequiresAdministrator(t *testing.T) {
	svc := newAnnouncementService(t, &stubAnnouncementRepo{})

	advisor := access.Viewer{UserID: 2, Role: models.RoleAdvisor}
	_, err := svc.Create(context.Background(), advisor, dto.AnnouncementCreateRequest{
		Title:   "Not allowed",
		Content: "Advisors cannot broadcast",
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAnnouncementCreateDefaultsTypeAndSanitizes(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	svc := newAnnouncementService(t, repo)

	admin := access.Viewer{UserID: 1, Role: models.RoleAdministrator}
	resp, err := svc.Create(context.Background(), admin, dto.AnnouncementCreateRequest{
		Title:   "Lab access",
		Content: "<p>Badge in at the <script>alert(1)</script>front desk</p>",
	})
	require.NoError(t, err)
	require.Equal(t, models.AnnouncementTypeInfo, resp.Type)
	require.NotContains(t, repo.items[0].Content, "script")
}
