package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// WriteXLSX writes a workbook with a Transactions sheet and a Summary sheet
// holding the balance view and expense totals per category.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"ID", "Type", "Category", "Amount", "Description", "Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(transactionsSheet, cell, h)
	}

	for idx, t := range r.Transactions {
		row := idx + 2
		f.SetCellValue(transactionsSheet, fmt.Sprintf("A%d", row), t.ID)
		f.SetCellValue(transactionsSheet, fmt.Sprintf("B%d", row), t.Kind.Title())
		f.SetCellValue(transactionsSheet, fmt.Sprintf("C%d", row), t.Category)
		f.SetCellValue(transactionsSheet, fmt.Sprintf("D%d", row), t.Amount.InexactFloat64())
		f.SetCellValue(transactionsSheet, fmt.Sprintf("E%d", row), t.Description)
		f.SetCellValue(transactionsSheet, fmt.Sprintf("F%d", row), t.Date())
	}

	f.SetColWidth(transactionsSheet, "A", "A", 8)
	f.SetColWidth(transactionsSheet, "B", "B", 10)
	f.SetColWidth(transactionsSheet, "C", "C", 18)
	f.SetColWidth(transactionsSheet, "D", "D", 12)
	f.SetColWidth(transactionsSheet, "E", "E", 30)
	f.SetColWidth(transactionsSheet, "F", "F", 20)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	f.SetCellValue(summarySheet, "A1", "Total income")
	f.SetCellValue(summarySheet, "B1", r.Totals.Income.InexactFloat64())
	f.SetCellValue(summarySheet, "A2", "Total expenses")
	f.SetCellValue(summarySheet, "B2", r.Totals.Expenses.InexactFloat64())
	f.SetCellValue(summarySheet, "A3", "Balance")
	f.SetCellValue(summarySheet, "B3", r.Totals.Balance.InexactFloat64())

	f.SetCellValue(summarySheet, "A5", "Category")
	f.SetCellValue(summarySheet, "B5", "Expenses")
	for idx, c := range r.Summary {
		row := idx + 6
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), c.Name)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), c.Amount.InexactFloat64())
	}
	f.SetColWidth(summarySheet, "A", "A", 18)
	f.SetColWidth(summarySheet, "B", "B", 14)

	return f.Write(w)
}
