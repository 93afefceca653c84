package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

// BuildStatementPDF renders the monthly statement: headline totals plus
// the category breakdown table.
func BuildStatementPDF(overview core.MonthOverview, totals []analytics.CategoryTotal) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Monthly Statement", false)
	pdf.AddPage()

	monthLabel := time.Date(overview.Year, time.Month(overview.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Monthly Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %s", monthLabel))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Income (EUR): %.2f", overview.TotalIncome.Euros()))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Expenses (EUR): %.2f", overview.TotalExpense.Euros()))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Net (EUR): %.2f", overview.Net().Euros()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Spending by Category")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 6, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "Amount (EUR)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Share", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, ct := range totals {
		pdf.CellFormat(80, 6, ct.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", float64(ct.TotalCents)/100.0), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.1f%%", ct.PercentOfWhole), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	if len(totals) == 0 {
		pdf.Cell(0, 6, "No expenses recorded this month.")
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
