package menu

import (
	"fmt"
	"io"
	"strings"

	"fintrack/internal/core"
)

// PrintTransactions renders the transaction table and reports whether
// there was anything to show.
func PrintTransactions(w io.Writer, txs []core.Transaction) bool {
	if len(txs) == 0 {
		fmt.Fprintln(w, "\nNo transactions found.")
		return false
	}

	rule := strings.Repeat("=", 80)
	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintf(w, "%-5s %-10s %-15s %-12s %-20s %-20s\n", "ID", "Type", "Category", "Amount", "Description", "Date")
	fmt.Fprintln(w, rule)
	for _, t := range txs {
		fmt.Fprintf(w, "%-5d %-10s %-15s $%-11s %-20s %-20s\n",
			t.ID, t.Kind.Title(), t.Category, t.Amount.StringFixed(2), t.Description, t.Date())
	}
	fmt.Fprintln(w, rule)
	return true
}

// PrintBalance renders total income, total expenses and the balance.
func PrintBalance(w io.Writer, totals core.Totals) {
	rule := strings.Repeat("=", 40)
	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, "FINANCIAL SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total Income:  $%s\n", core.FormatAmount(totals.Income))
	fmt.Fprintf(w, "Total Expenses: $%s\n", core.FormatAmount(totals.Expenses))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Current Balance: $%s\n", core.FormatAmount(totals.Balance))
	fmt.Fprintln(w, rule)
}

// PrintCategorySummary renders expense totals, largest first, with a TOTAL row.
func PrintCategorySummary(w io.Writer, summary core.CategorySummary) {
	if len(summary) == 0 {
		fmt.Fprintln(w, "\nNo expense categories found.")
		return
	}

	rule := strings.Repeat("=", 40)
	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, "EXPENSE BREAKDOWN BY CATEGORY")
	fmt.Fprintln(w, rule)
	for _, c := range summary.ByAmountDesc() {
		fmt.Fprintf(w, "%-20s $%s\n", c.Name, core.FormatAmount(c.Amount))
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%-20s $%s\n", "TOTAL", core.FormatAmount(summary.Total()))
	fmt.Fprintln(w, rule)
}
