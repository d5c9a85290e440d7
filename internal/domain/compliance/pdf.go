package compliance

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF produces a printable rendering of one compliance report.
func RenderPDF(report Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "GDPR Compliance Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s (%s)",
		report.PeriodStart.Format(time.DateOnly), report.PeriodEnd.Format(time.DateOnly), report.Range))
	pdf.Ln(7)
	if report.InstitutionID != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Institution: %s", report.InstitutionID))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Processing actions: %d", report.ProcessingCount))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deletion actions: %d", report.DeletionCount))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Export actions: %d", report.ExportCount))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Complaints: %d", report.ComplaintCount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Compliance score: %d / 100", report.ComplianceScore))
	pdf.Ln(10)

	if len(report.Anomalies) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Anomalies")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		for _, anomaly := range report.Anomalies {
			label := anomaly.Date
			if label == "" {
				label = string(anomaly.Action)
			}
			pdf.Cell(0, 6, fmt.Sprintf("- %s (%s): %d observed, threshold %.1f [%s]",
				anomaly.Type, label, anomaly.Count, anomaly.Threshold, anomaly.Severity))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	if len(report.Recommendations) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Recommendations")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		for _, rec := range report.Recommendations {
			pdf.Cell(0, 6, fmt.Sprintf("- [%s] %s", rec.Priority, rec.Message))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render compliance report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
