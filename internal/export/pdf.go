package export

import (
	"io"
	"strconv"

	"fintrack/internal/core"

	"github.com/phpdave11/gofpdf"
)

// WritePDF renders an A4 statement: balance boxes, the expense breakdown by
// category and the full transaction table.
func WritePDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Ledger Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Generated: "+r.GeneratedAt.Format(core.DateLayout))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{60, 61, 61}
	pdf.CellFormat(sumW[0], 10, "Total income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Total expenses", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, core.FormatAmount(r.Totals.Income), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, core.FormatAmount(r.Totals.Expenses), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, core.FormatAmount(r.Totals.Balance), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	if len(r.Summary) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Expenses by category")
		pdf.Ln(9)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(120, 8, "CATEGORY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(62, 8, "AMOUNT", "1", 1, "R", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, c := range r.Summary.ByAmountDesc() {
			pdf.CellFormat(120, 7, tr(trimTo(c.Name, 60)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(62, 7, core.FormatAmount(c.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(120, 7, "TOTAL", "1", 0, "L", false, 0, "")
		pdf.CellFormat(62, 7, core.FormatAmount(r.Summary.Total()), "1", 1, "R", false, 0, "")
		pdf.Ln(6)
	}

	colW := []float64{14, 22, 36, 30, 42, 38}
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "ID", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "TYPE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], 8, "CATEGORY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "AMOUNT", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[4], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[5], 8, "DATE", "1", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	for _, t := range r.Transactions {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(colW[0], 7, strconv.FormatInt(t.ID, 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 7, t.Kind.Title(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 7, tr(trimTo(t.Category, 18)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 7, core.FormatAmount(t.Signed()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 7, tr(trimTo(t.Description, 22)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[5], 7, t.Date(), "1", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

func trimTo(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "."
}
