package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
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

type stubEvaluations struct {
	submitErr error
	report    []byte
	reportErr error
}

func (s *stubEvaluations) Pending(ctx context.Context, evaluatorID uint, limit, offset int) ([]dto.PendingEvaluationResponse, dto.Pagination, error) {
	return nil, dto.Pagination{}, nil
}

func (s *stubEvaluations) Completed(ctx context.Context, evaluatorID uint, limit, offset int) (dto.EvaluationListResponse, error) {
	return dto.EvaluationListResponse{}, nil
}

func (s *stubEvaluations) Submit(ctx context.Context, id uint, viewer access.Viewer, req dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error) {
	if s.submitErr != nil {
		return dto.EvaluationResponse{}, s.submitErr
	}
	return dto.EvaluationResponse{ID: id, Score: 90, Category: "Excellent"}, nil
}

func (s *stubEvaluations) Report(ctx context.Context, id uint, viewer access.Viewer) ([]byte, string, error) {
	if s.reportErr != nil {
		return nil, "", s.reportErr
	}
	return s.report, "evaluation-4.pdf", nil
}

func newEvaluatorTestApp(evaluations service.EvaluationService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(42))
		c.Locals("user_role", models.RoleEvaluator)
		return c.Next()
	})

	handler := NewEvaluatorHandler(nil, evaluations, zerolog.Nop())
	handler.Register(app.Group("/evaluator"))
	return app
}

func TestDownloadReportSetsPDFHeaders(t *testing.T) {
	payload := []byte("%PDF-1.4 fake body")
	app := newEvaluatorTestApp(&stubEvaluations{report: payload})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/evaluator/evaluations/completed/4/download", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	require.Equal(t, `attachment; filename="evaluation-4.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, payload, body)
}

func TestDownloadReportMissingEvaluation(t *testing.T) {
	app := newEvaluatorTestApp(&stubEvaluations{reportErr: service.ErrNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/evaluator/evaluations/completed/4/download", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitCompletedEvaluationConflicts(t *testing.T) {
	app := newEvaluatorTestApp(&stubEvaluations{submitErr: service.ErrEvaluationCompleted})

	payload, err := json.Marshal(dto.EvaluationSubmitRequest{
		Criteria: []dto.CriterionInput{{Name: "Design", Score: 10, MaxScore: 10}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/evaluator/evaluations/4", bytes.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	require.False(t, body.Success)
	require.Equal(t, "conflict", body.Error)
}

func TestSubmitInvalidIDRejected(t *testing.T) {
	app := newEvaluatorTestApp(&stubEvaluations{})

	req := httptest.NewRequest(http.MethodPost, "/evaluator/evaluations/abc", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
