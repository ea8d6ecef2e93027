// internal/report/transmission_pdf.go

package report

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"followme/internal/db"
)

// TransmissionReport 发送记录报表
type TransmissionReport struct {
	DeviceID     string
	IEEE         string
	ScanInterval int
	Enabled      bool
	GeneratedAt  time.Time
	Records      []*db.Transmission
}

// Summary 成功与失败次数
func (r TransmissionReport) Summary() (sent, failed int) {
	for _, t := range r.Records {
		if t.Success {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}

var tableHeaders = []struct {
	width float64
	name  string
}{
	{12, "#"},
	{40, "Time"},
	{22, "Temp (C)"},
	{14, "Level"},
	{20, "Result"},
	{169, "Code / Error"},
}

// GenerateTransmissionPDF 生成发送记录 PDF（横向 A4）
func GenerateTransmissionPDF(report TransmissionReport) (*gofpdf.Fpdf, error) {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(277, 15, "FollowMe - Transmission Log")
	pdf.Ln(18)

	pdf.Line(10, pdf.GetY(), 287, pdf.GetY())
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "", 11)
	drawInfoSection(pdf, report)

	pdf.Ln(3)
	pdf.Line(10, pdf.GetY(), 287, pdf.GetY())
	pdf.Ln(5)

	drawTransmissionTable(pdf, report.Records)

	sent, failed := report.Summary()
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 102, 204)
	pdf.Cell(60, 10, fmt.Sprintf("Sent: %d", sent))
	pdf.SetTextColor(204, 0, 0)
	pdf.Cell(60, 10, fmt.Sprintf("Failed: %d", failed))
	pdf.SetTextColor(0, 0, 0)

	drawFooter(pdf, report.GeneratedAt)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return pdf, nil
}

func drawInfoSection(pdf *gofpdf.Fpdf, report TransmissionReport) {
	pdf.Cell(25, 8, "Device:")
	pdf.SetTextColor(0, 102, 204)
	pdf.Cell(30, 8, report.DeviceID)
	pdf.SetTextColor(0, 0, 0)

	pdf.Cell(25, 8, "IR blaster:")
	pdf.Cell(70, 8, report.IEEE)

	pdf.Cell(30, 8, "Scan interval:")
	pdf.Cell(25, 8, fmt.Sprintf("%ds", report.ScanInterval))

	pdf.Cell(20, 8, "Enabled:")
	pdf.Cell(20, 8, fmt.Sprintf("%v", report.Enabled))
	pdf.Ln(10)
}

func drawHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, h := range tableHeaders {
		pdf.CellFormat(h.width, 10, h.name, "", 0, "L", true, 0, "")
	}
	pdf.Ln(10)
	pdf.SetFont("Courier", "", 8)
}

func drawTransmissionTable(pdf *gofpdf.Fpdf, records []*db.Transmission) {
	drawHeader(pdf)

	rowHeight := 7.0
	fill := false
	for i, t := range records {
		// 留出页脚空间
		if pdf.GetY() > 180 {
			pdf.AddPage()
			drawHeader(pdf)
		}

		if fill {
			pdf.SetFillColor(249, 249, 249)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		pdf.CellFormat(12, rowHeight, fmt.Sprintf("%d", i+1), "", 0, "L", true, 0, "")
		pdf.CellFormat(40, rowHeight, t.SentAt.Format("2006-01-02 15:04:05"), "", 0, "L", true, 0, "")
		pdf.CellFormat(22, rowHeight, fmt.Sprintf("%.0f", t.Temperature), "", 0, "L", true, 0, "")
		pdf.CellFormat(14, rowHeight, fmt.Sprintf("%d", t.Level), "", 0, "L", true, 0, "")

		detail := t.Code
		if t.Success {
			pdf.SetTextColor(0, 153, 0)
			pdf.CellFormat(20, rowHeight, "sent", "", 0, "L", true, 0, "")
		} else {
			pdf.SetTextColor(204, 0, 0)
			pdf.CellFormat(20, rowHeight, "failed", "", 0, "L", true, 0, "")
			detail = t.Error
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(169, rowHeight, truncate(detail, 110), "", 0, "L", true, 0, "")

		pdf.Ln(rowHeight)
		fill = !fill
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func drawFooter(pdf *gofpdf.Fpdf, at time.Time) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)

	footerText := fmt.Sprintf("Printed: %s", at.Format("2006-01-02 15:04:05"))
	footerWidth := pdf.GetStringWidth(footerText)
	pageWidth := 297.0
	x := (pageWidth - footerWidth) / 2

	pdf.Text(x, 200, footerText)
}
