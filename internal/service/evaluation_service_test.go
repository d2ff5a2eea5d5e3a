package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prp-platform/prp-api/internal/access"
	"github.com/prp-platform/prp-api/internal/dto"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
)

type stubEvaluationRepo struct {
	evaluation models.Evaluation
	findErr    error

	completedID    uint
	completedScore float64
}

func (r *stubEvaluationRepo) FindByID(ctx context.Context, id uint) (models.Evaluation, error) {
	if r.findErr != nil {
		return models.Evaluation{}, r.findErr
	}
	return r.evaluation, nil
}

func (r *stubEvaluationRepo) ListByEvaluator(ctx context.Context, evaluatorID uint, filter repository.EvaluationFilter) ([]models.Evaluation, int64, error) {
	return nil, 0, nil
}

func (r *stubEvaluationRepo) Complete(ctx context.Context, id uint, score float64, comments string, criteria []models.EvaluationCriterion, completedAt time.Time) error {
	r.completedID = id
	r.completedScore = score
	return nil
}

func (r *stubEvaluationRepo) CountByEvaluator(ctx context.Context, evaluatorID uint, status string) (int64, error) {
	return 0, nil
}

func (r *stubEvaluationRepo) AverageScoreByEvaluator(ctx context.Context, evaluatorID uint) (float64, error) {
	return 0, nil
}

type recordingNotifier struct {
	sent []dto.NotificationCreateRequest
}

func (n *recordingNotifier) Notify(ctx context.Context, payload dto.NotificationCreateRequest) {
	n.sent = append(n.sent, payload)
}

func TestCategoryForScoreBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, CategoryExcellent},
		{90, CategoryExcellent},
		{89.9, CategoryGood},
		{80, CategoryGood},
		{79.9, CategorySatisfactory},
		{70, CategorySatisfactory},
		{69.9, CategoryNeedsImprovement},
		{60, CategoryNeedsImprovement},
		{59.9, CategoryUnsatisfactory},
		{0, CategoryUnsatisfactory},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CategoryForScore(tc.score), "score %v", tc.score)
	}
}

func pendingEvaluation() models.Evaluation {
	return models.Evaluation{
		ID:          3,
		ProjectID:   9,
		EvaluatorID: 42,
		Status:      models.EvaluationStatusPending,
		Project: models.Project{
			ID:    9,
			Title: "Smart Irrigation",
			Group: models.Group{
				Name:    "Team Delta",
				Members: []models.User{{ID: 11}, {ID: 12}},
			},
		},
	}
}

func TestEvaluationSubmitComputesWeightedScore(t *testing.T) {
	repo := &stubEvaluationRepo{evaluation: pendingEvaluation()}
	notifier := &recordingNotifier{}
	svc := NewEvaluationService(repo, notifier, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	viewer := access.Viewer{UserID: 42, Role: models.RoleEvaluator}
	resp, err := svc.Submit(context.Background(), 3, viewer, dto.EvaluationSubmitRequest{
		Criteria: []dto.CriterionInput{
			{Name: "Design", Score: 18, MaxScore: 20},
			{Name: "Implementation", Score: 27, MaxScore: 30},
		},
		OverallComments: "Solid work",
	})
	require.NoError(t, err)

	// 45 of 50 possible points normalizes to 90.
	require.Equal(t, float64(90), resp.Score)
	require.Equal(t, CategoryExcellent, resp.Category)
	require.Equal(t, uint(3), repo.completedID)
	require.Equal(t, float64(90), repo.completedScore)

	require.Len(t, notifier.sent, 2)
	require.Equal(t, uint(11), notifier.sent[0].UserID)
	require.Equal(t, "evaluation.completed", notifier.sent[0].Type)
}

func TestEvaluationSubmitRejectsCompleted(t *testing.T) {
	evaluation := pendingEvaluation()
	evaluation.Status = models.EvaluationStatusCompleted
	repo := &stubEvaluationRepo{evaluation: evaluation}
	svc := NewEvaluationService(repo, nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	viewer := access.Viewer{UserID: 42, Role: models.RoleEvaluator}
	_, err := svc.Submit(context.Background(), 3, viewer, dto.EvaluationSubmitRequest{
		Criteria: []dto.CriterionInput{{Name: "Design", Score: 10, MaxScore: 10}},
	})
	require.ErrorIs(t, err, ErrEvaluationCompleted)
}

func TestEvaluationSubmitRejectsForeignEvaluator(t *testing.T) {
	repo := &stubEvaluationRepo{evaluation: pendingEvaluation()}
	svc := NewEvaluationService(repo, nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	viewer := access.Viewer{UserID: 7, Role: models.RoleEvaluator}
	_, err := svc.Submit(context.Background(), 3, viewer, dto.EvaluationSubmitRequest{
		Criteria: []dto.CriterionInput{{Name: "Design", Score: 10, MaxScore: 10}},
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestEvaluationSubmitRejectsScoreAboveMax(t *testing.T) {
	repo := &stubEvaluationRepo{evaluation: pendingEvaluation()}
	svc := NewEvaluationService(repo, nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	viewer := access.Viewer{UserID: 42, Role: models.RoleEvaluator}
	_, err := svc.Submit(context.Background(), 3, viewer, dto.EvaluationSubmitRequest{
		Criteria: []dto.CriterionInput{{Name: "Design", Score: 11, MaxScore: 10}},
	})
	require.Error(t, err)
}

func TestEvaluationSubmitMissingReturnsNotFound(t *testing.T) {
	repo := &stubEvaluationRepo{findErr: gorm.ErrRecordNotFound}
	svc := NewEvaluationService(repo, nil, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	viewer := access.Viewer{UserID: 42, Role: models.RoleEvaluator}
	_, err := svc.Submit(context.Background(), 99, viewer, dto.EvaluationSubmitRequest{
		Criteria: []dto.CriterionInput{{Name: "Design", Score: 5, MaxScore: 10}},
	})
	require.ErrorIs(t, err, ErrNotFound)
}
