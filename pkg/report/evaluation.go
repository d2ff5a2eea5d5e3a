// Package report renders downloadable PDF documents for completed evaluations.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Criterion is one scored rubric row of the report.
type Criterion struct {
	Name     string
	Score    float64
	MaxScore float64
	Comment  string
}

// Evaluation carries everything the report needs. Category must already be
// derived from the score by the caller.
type Evaluation struct {
	ProjectTitle    string
	GroupName       string
	EvaluatorName   string
	Score           float64
	Category        string
	OverallComments string
	CompletedAt     time.Time
	Criteria        []Criterion
}

// Render produces the PDF bytes for an evaluation report.
func Render(e Evaluation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Evaluation Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Project Evaluation Report")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	writeRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(45, 7, label)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, value, "", "L", false)
	}

	writeRow("Project", e.ProjectTitle)
	writeRow("Group", e.GroupName)
	writeRow("Evaluator", e.EvaluatorName)
	writeRow("Score", fmt.Sprintf("%.1f / 100 (%s)", e.Score, e.Category))
	if !e.CompletedAt.IsZero() {
		writeRow("Completed", e.CompletedAt.UTC().Format("2 January 2006"))
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 9, "Criteria")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 8, "Criterion", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 8, "Comment", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, criterion := range e.Criteria {
		pdf.CellFormat(90, 8, criterion.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.1f / %.1f", criterion.Score, criterion.MaxScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 8, criterion.Comment, "1", 1, "L", false, 0, "")
	}

	if e.OverallComments != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 9, "Overall Comments")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, e.OverallComments, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render evaluation report: %w", err)
	}
	return buf.Bytes(), nil
}
