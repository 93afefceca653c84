package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
)

func statementEvents() []analytics.MoneyEvent {
	return []analytics.MoneyEvent{
		{
			ID:          1,
			Description: "Salary",
			AmountCents: 250000,
			Category:    "Job",
			OccurredOn:  core.NewDate(2025, 1, 15),
			Kind:        analytics.KindIncome,
		},
		{
			ID:          2,
			Description: "Groceries",
			AmountCents: 4250,
			OccurredOn:  core.NewDate(2025, 1, 16),
			Kind:        analytics.KindExpense,
		},
	}
}

func TestBuildTransactionsXLSX(t *testing.T) {
	data, err := BuildTransactionsXLSX(statementEvents())
	if err != nil {
		t.Fatalf("BuildTransactionsXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	checks := []struct {
		cell string
		want string
	}{
		{"A1", "Date"},
		{"E1", "Amount (EUR)"},
		{"A2", "2025-01-15"},
		{"B2", "income"},
		{"C2", "Salary"},
		{"D2", "Job"},
		{"E2", "2500"},
		{"B3", "expense"},
		{"D3", analytics.Uncategorized},
		{"E3", "42.5"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(transactionsSheet, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", c.cell, err)
		}
		if got != c.want {
			t.Errorf("cell %s = %q, want %q", c.cell, got, c.want)
		}
	}
}

func TestBuildTransactionsXLSXEmpty(t *testing.T) {
	data, err := BuildTransactionsXLSX(nil)
	if err != nil {
		t.Fatalf("BuildTransactionsXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(transactionsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("workbook has %d rows, want header only", len(rows))
	}
}

func TestBuildStatementPDF(t *testing.T) {
	overview := core.MonthOverview{
		Year:         2025,
		Month:        1,
		TotalIncome:  core.Money{Cents: 250000},
		TotalExpense: core.Money{Cents: 18000},
	}
	totals := []analytics.CategoryTotal{
		{Category: "Food", TotalCents: 12000, PercentOfWhole: 66.67},
		{Category: "Travel", TotalCents: 6000, PercentOfWhole: 33.33},
	}

	data, err := BuildStatementPDF(overview, totals)
	if err != nil {
		t.Fatalf("BuildStatementPDF() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
	if len(data) < 500 {
		t.Errorf("output is %d bytes, suspiciously small", len(data))
	}
}

func TestBuildStatementPDFNoExpenses(t *testing.T) {
	overview := core.MonthOverview{Year: 2025, Month: 2, TotalIncome: core.Money{Cents: 100000}}

	data, err := BuildStatementPDF(overview, nil)
	if err != nil {
		t.Fatalf("BuildStatementPDF() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}
