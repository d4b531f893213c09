package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// csvHeader mirrors the field names of the ledger file.
var csvHeader = []string{"transaction_id", "transaction_type", "category", "amount", "description", "date"}

// WriteCSV writes one row per transaction after a header row.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range txs {
		if err := writer.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Kind.String(),
			escapeFormula(t.Category),
			t.Amount.StringFixed(2),
			escapeFormula(t.Description),
			t.Date(),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// escapeFormula stops spreadsheets from evaluating free text as a formula.
func escapeFormula(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
