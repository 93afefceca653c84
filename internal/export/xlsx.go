// Package export builds downloadable statement files from ledger data.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/analytics"
)

const transactionsSheet = "Transactions"

// BuildTransactionsXLSX renders ledger records as a spreadsheet. Rows
// are written in the order given.
func BuildTransactionsXLSX(events []analytics.MoneyEvent) ([]byte, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", transactionsSheet)

	_ = f.SetCellValue(transactionsSheet, "A1", "Date")
	_ = f.SetCellValue(transactionsSheet, "B1", "Kind")
	_ = f.SetCellValue(transactionsSheet, "C1", "Description")
	_ = f.SetCellValue(transactionsSheet, "D1", "Category")
	_ = f.SetCellValue(transactionsSheet, "E1", "Amount (EUR)")

	for i, ev := range events {
		row := i + 2
		date := ""
		if !ev.OccurredOn.IsZero() {
			date = ev.OccurredOn.Format("2006-01-02")
		}
		category := ev.Category
		if category == "" {
			category = analytics.Uncategorized
		}
		_ = f.SetCellValue(transactionsSheet, fmt.Sprintf("A%d", row), date)
		_ = f.SetCellValue(transactionsSheet, fmt.Sprintf("B%d", row), string(ev.Kind))
		_ = f.SetCellValue(transactionsSheet, fmt.Sprintf("C%d", row), ev.Description)
		_ = f.SetCellValue(transactionsSheet, fmt.Sprintf("D%d", row), category)
		_ = f.SetCellValue(transactionsSheet, fmt.Sprintf("E%d", row), float64(ev.AmountCents)/100.0)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
