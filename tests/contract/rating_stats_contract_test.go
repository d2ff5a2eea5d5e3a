package contract_test

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/handler"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
	"github.com/prp-platform/prp-api/internal/service"
)

type stubProfileService struct {
	user models.User
}

func (s stubProfileService) Get(context.Context, string, access.Viewer) (dto.ProfileResponse, error) {
	return dto.NewProfileResponse(s.user, false, false), nil
}

func (s stubProfileService) Update(context.Context, string, access.Viewer, dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	return dto.ProfileResponse{}, service.ErrForbidden
}

func (s stubProfileService) UploadPhoto(context.Context, string, access.Viewer, *multipart.FileHeader) (dto.ProfilePhotoResponse, error) {
	return dto.ProfilePhotoResponse{}, service.ErrForbidden
}

func (s stubProfileService) ResolveUser(context.Context, string) (models.User, error) {
	return s.user, nil
}

func (s stubProfileService) FullAccess(context.Context, models.User, access.Viewer) (bool, error) {
	return false, nil
}

type stubReviewService struct {
	stats repository.ReviewStats
}

func (s stubReviewService) Create(context.Context, models.User, access.Viewer, dto.ReviewCreateRequest) (dto.ReviewResponse, error) {
	return dto.ReviewResponse{}, service.ErrForbidden
}

func (s stubReviewService) ListBySubject(context.Context, uint, int, int) (dto.ReviewListResponse, error) {
	return dto.ReviewListResponse{}, nil
}

func (s stubReviewService) RatingStats(context.Context, uint) (dto.RatingStatsResponse, error) {
	return service.NewRatingStatsResponse(s.stats), nil
}

func TestRatingStatsContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "rating_stats.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	profiles := stubProfileService{user: models.User{
		ID:       7,
		Username: "prof.ada",
		Role:     models.RoleAdvisor,
	}}
	reviews := stubReviewService{stats: repository.ReviewStats{
		Average: 4.2,
		Total:   10,
		Distribution: map[int]int64{
			1: 0, 2: 1, 3: 2, 4: 3, 5: 4,
		},
	}}

	userHandler := handler.NewUserHandler(profiles, nil, nil, reviews, nil, nil, zerolog.Nop())

	app := fiber.New()
	userHandler.Register(app.Group("/api/v1/users"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/prof.ada/rating-stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NoError(t, schema.Validate(payload))
}
