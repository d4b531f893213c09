// Package export renders the ledger as CSV, XLSX or PDF reports.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fintrack/internal/core"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts csv, xlsx or pdf in any letter case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case CSV, XLSX, PDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Report is a point-in-time view of the ledger.
type Report struct {
	Transactions []core.Transaction
	Totals       core.Totals
	Summary      core.CategorySummary
	GeneratedAt  time.Time
}

// NewReport derives totals and the category summary from txs.
func NewReport(txs []core.Transaction, at time.Time) Report {
	return Report{
		Transactions: txs,
		Totals:       core.ComputeTotals(txs),
		Summary:      core.Summarize(txs),
		GeneratedAt:  at,
	}
}

// Write renders r in the given format.
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case CSV:
		return WriteCSV(w, r.Transactions)
	case XLSX:
		return WriteXLSX(w, r)
	case PDF:
		return WritePDF(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile renders r to path, removing the partial file on failure.
func WriteFile(path string, format Format, r Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := Write(f, format, r); err != nil {
		return fmt.Errorf("write %s report: %w", format, err)
	}
	return nil
}
