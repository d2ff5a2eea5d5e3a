package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	payload, err := Render(Evaluation{
		ProjectTitle:    "Smart Campus Navigation",
		GroupName:       "Team Rocket",
		EvaluatorName:   "Dr. Vega",
		Score:           87.5,
		Category:        "Good",
		OverallComments: "Solid engineering with room for polish.",
		CompletedAt:     time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC),
		Criteria: []Criterion{
			{Name: "Technical depth", Score: 45, MaxScore: 50, Comment: "Strong"},
			{Name: "Presentation", Score: 42.5, MaxScore: 50},
		},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(payload, []byte("%PDF")), "output must start with the PDF magic header")
	require.Greater(t, len(payload), 500)
}
