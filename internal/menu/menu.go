// Package menu is the interactive front end of the ledger. It collects input,
// calls the ledger and renders the results; it holds no ledger state.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// Ledger is the subset of the ledger service the menu drives.
type Ledger interface {
	Add(ctx context.Context, kind core.Kind, category string, amount decimal.Decimal, description string) (core.Transaction, error)
	Delete(ctx context.Context, id int64) error
	All() []core.Transaction
	Totals() core.Totals
	CategorySummary() core.CategorySummary
}

type Menu struct {
	ledger Ledger
	prompt Prompter
	out    io.Writer
	logger *slog.Logger
	ok     *color.Color
	fail   *color.Color
}

func New(l Ledger, prompt Prompter, out io.Writer, logger *slog.Logger) *Menu {
	if logger == nil {
		logger = slog.Default()
	}
	return &Menu{
		ledger: l,
		prompt: prompt,
		out:    out,
		logger: logger,
		ok:     color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
	}
}

// errQuit ends the loop after the farewell message.
var errQuit = errors.New("quit")

// Run shows the menu until the user picks Exit or input ends.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Welcome to Personal Finance Tracker!")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		m.printMenu()

		choice, err := m.prompt.Prompt("\nEnter your choice (1-7): ")
		if err != nil {
			return m.finish(err)
		}

		err = m.dispatch(ctx, strings.TrimSpace(choice))
		if err != nil {
			return m.finish(err)
		}
	}
}

func (m *Menu) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, errQuit) {
		fmt.Fprintln(m.out, "\nThank you for using Personal Finance Tracker!")
		return nil
	}
	return err
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.addTransaction(ctx, core.Income, "Category (e.g., Salary, Freelance): ")
	case "2":
		return m.addTransaction(ctx, core.Expense, "Category (e.g., Food, Transport, Bills): ")
	case "3":
		m.viewAll()
	case "4":
		m.viewBalance()
	case "5":
		m.viewCategorySummary()
	case "6":
		return m.deleteTransaction(ctx)
	case "7":
		return errQuit
	default:
		m.fail.Fprintln(m.out, "✗ Invalid choice. Please try again.")
	}
	return nil
}

func (m *Menu) printMenu() {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(m.out, "\n"+rule)
	fmt.Fprintln(m.out, "PERSONAL FINANCE TRACKER")
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, "1. Add Income")
	fmt.Fprintln(m.out, "2. Add Expense")
	fmt.Fprintln(m.out, "3. View All Transactions")
	fmt.Fprintln(m.out, "4. View Balance")
	fmt.Fprintln(m.out, "5. View Category Summary")
	fmt.Fprintln(m.out, "6. Delete Transaction")
	fmt.Fprintln(m.out, "7. Exit")
	fmt.Fprintln(m.out, rule)
}

func (m *Menu) addTransaction(ctx context.Context, kind core.Kind, categoryPrompt string) error {
	fmt.Fprintf(m.out, "\n--- Add %s ---\n", kind.Title())

	var category string
	for {
		line, err := m.prompt.Prompt(categoryPrompt)
		if err != nil {
			return err
		}
		if category = strings.TrimSpace(line); category != "" {
			break
		}
		m.fail.Fprintln(m.out, "✗ Category cannot be empty.")
	}

	var amount decimal.Decimal
	for {
		line, err := m.prompt.Prompt("Amount: ")
		if err != nil {
			return err
		}
		if amount, err = core.ParseAmount(line); err == nil {
			break
		}
		m.fail.Fprintln(m.out, "✗ Invalid amount. Please enter a positive number.")
	}

	description, err := m.prompt.Prompt("Description: ")
	if err != nil {
		return err
	}

	t, err := m.ledger.Add(ctx, kind, category, amount, description)
	if err != nil {
		m.reportError(log.OpAdd, err)
		return nil
	}
	m.ok.Fprintf(m.out, "✓ %s added successfully! (ID: %d)\n", kind.Title(), t.ID)
	return nil
}

func (m *Menu) viewAll() bool {
	return PrintTransactions(m.out, m.ledger.All())
}

func (m *Menu) viewBalance() {
	PrintBalance(m.out, m.ledger.Totals())
}

func (m *Menu) viewCategorySummary() {
	PrintCategorySummary(m.out, m.ledger.CategorySummary())
}

func (m *Menu) deleteTransaction(ctx context.Context) error {
	if !m.viewAll() {
		return nil
	}

	line, err := m.prompt.Prompt("\nEnter Transaction ID to delete: ")
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		m.fail.Fprintln(m.out, "✗ Invalid ID.")
		return nil
	}

	err = m.ledger.Delete(ctx, id)
	switch {
	case err == nil:
		m.ok.Fprintln(m.out, "✓ Transaction deleted successfully!")
	case errors.Is(err, ledger.ErrNotFound):
		m.fail.Fprintln(m.out, "✗ Transaction not found.")
	default:
		m.reportError(log.OpDelete, err)
	}
	return nil
}

// reportError keeps the loop alive after a failed operation.
func (m *Menu) reportError(op string, err error) {
	log.LogFailure(m.logger, op, err)
	m.fail.Fprintf(m.out, "✗ An error occurred: %v\n", err)
	fmt.Fprintln(m.out, "Please try again.")
}
