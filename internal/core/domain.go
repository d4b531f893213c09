package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// DateLayout is the wall-clock layout used for transaction timestamps.
const DateLayout = "2006-01-02 15:04:05"

type (
	// Kind classifies a transaction as income or expense.
	Kind string

	// Transaction is one recorded income or expense event. It is never edited
	// after creation, only deleted.
	Transaction struct {
		ID          int64
		Kind        Kind
		Category    string
		Amount      decimal.Decimal
		Description string
		Timestamp   time.Time
	}
)

var (
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidID     = errors.New("invalid transaction id")
	ErrZeroTimestamp = errors.New("timestamp cannot be zero")
)

// ParseKind accepts "income" or "expense" in any letter case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (k Kind) String() string {
	return string(k)
}

// Title returns the kind with an upper-case first letter, for display.
func (k Kind) Title() string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ValidateEntry checks the user-supplied fields of a new transaction.
func ValidateEntry(kind Kind, category string, amount decimal.Decimal) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(category) == "" {
		return ErrEmptyCategory
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.ID <= 0 {
		return ErrInvalidID
	}
	if err := ValidateEntry(t.Kind, t.Category, t.Amount); err != nil {
		return err
	}
	if t.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}
	return nil
}

// Signed returns the amount with the sign of its contribution to the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Date returns the timestamp formatted with DateLayout.
func (t Transaction) Date() string {
	return t.Timestamp.Format(DateLayout)
}
