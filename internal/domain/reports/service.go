package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type SourceAPI interface {
	AttendanceSummaries(ctx context.Context) ([]AttendanceSummary, error)
}

type Service struct {
	source SourceAPI
	now    func() time.Time
}

func NewService(source SourceAPI) *Service {
	return &Service{source: source, now: time.Now}
}

// AttendancePDF renders the per-user check-in/out summary.
func (s *Service) AttendancePDF(ctx context.Context) ([]byte, error) {
	summaries, err := s.source.AttendanceSummaries(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Attendance Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", s.now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 7, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 7, "Email", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Check-ins", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Check-outs", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, sum := range summaries {
		pdf.CellFormat(60, 7, sum.Name, "1", 0, "", false, 0, "")
		pdf.CellFormat(70, 7, sum.Email, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", sum.Checkins), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", sum.Checkouts), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
