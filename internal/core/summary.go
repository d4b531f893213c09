package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// CategorySummary holds expense totals per category in first-seen order.
type CategorySummary []CategoryAmount

// Get returns the total for a category and whether it is present.
func (s CategorySummary) Get(name string) (decimal.Decimal, bool) {
	for _, c := range s {
		if c.Name == name {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}

// Total sums every category.
func (s CategorySummary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s {
		total = total.Add(c.Amount)
	}
	return total
}

// ByAmountDesc returns a copy sorted by amount, largest first. Ties keep
// first-seen order.
func (s CategorySummary) ByAmountDesc() CategorySummary {
	out := append(CategorySummary(nil), s...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// Totals is the balance view: income, expenses and their difference.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

// Summarize groups expense amounts by category, preserving the order in
// which categories first appear.
func Summarize(txs []Transaction) CategorySummary {
	var out CategorySummary
	index := map[string]int{}
	for _, t := range txs {
		if t.Kind != Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			index[t.Category] = len(out)
			out = append(out, CategoryAmount{Name: t.Category, Amount: t.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// ComputeTotals sums income and expenses in a single pass.
func ComputeTotals(txs []Transaction) Totals {
	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Kind {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return Totals{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}
}
