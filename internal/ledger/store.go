// Package ledger owns the in-memory transaction list and the id counter, and
// is the only component that reads or writes persisted ledger state.
//
// A Store is meant for a single goroutine; it does no locking.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

type Store struct {
	backend      storage.Backend
	clock        Clock
	logger       *slog.Logger
	transactions []core.Transaction
	nextID       int64
}

// Option configures a Store.
type Option func(*Store)

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open loads the ledger from backend. A backend with no saved state yields an
// empty ledger with next id 1; unreadable or invalid state fails with ErrLoad.
func Open(ctx context.Context, backend storage.Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		clock:   SystemClock,
		logger:  slog.Default(),
		nextID:  1,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, found, err := backend.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load ledger", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if !found {
		s.logger.InfoContext(ctx, "No saved ledger, starting empty")
		return s, nil
	}
	if err := snap.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	s.transactions = snap.Transactions
	s.nextID = snap.NextID
	s.logger.InfoContext(ctx, "Ledger loaded",
		"transactions", len(s.transactions),
		"next_id", s.nextID)
	return s, nil
}

// Add records a new transaction, persists the ledger and returns the record.
// Nothing changes in memory when validation or persistence fails.
func (s *Store) Add(ctx context.Context, kind core.Kind, category string, amount decimal.Decimal, description string) (core.Transaction, error) {
	if err := core.ValidateEntry(kind, category, amount); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if s.nextID == math.MaxInt64 {
		return core.Transaction{}, fmt.Errorf("%w: transaction ids exhausted", ErrValidation)
	}

	t := core.Transaction{
		ID:          s.nextID,
		Kind:        kind,
		Category:    strings.TrimSpace(category),
		Amount:      amount,
		Description: strings.TrimSpace(description),
		// Persisted dates carry whole seconds of local wall time only.
		Timestamp: s.clock.Now().In(time.Local).Truncate(time.Second),
	}

	next := make([]core.Transaction, len(s.transactions), len(s.transactions)+1)
	copy(next, s.transactions)
	next = append(next, t)

	if err := s.persist(ctx, next, s.nextID+1); err != nil {
		return core.Transaction{}, err
	}
	s.transactions = next
	s.nextID++

	s.logger.InfoContext(ctx, "Transaction added",
		"transaction_id", t.ID,
		"kind", t.Kind,
		"category", t.Category,
		"amount", t.Amount.String())
	return t, nil
}

// Delete removes the transaction with the given id and persists the ledger.
// The id counter is never decremented.
func (s *Store) Delete(ctx context.Context, id int64) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	next := make([]core.Transaction, 0, len(s.transactions)-1)
	next = append(next, s.transactions[:idx]...)
	next = append(next, s.transactions[idx+1:]...)

	if err := s.persist(ctx, next, s.nextID); err != nil {
		return err
	}
	s.transactions = next

	s.logger.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	return nil
}

// Save writes the current ledger to the backend.
func (s *Store) Save(ctx context.Context) error {
	return s.persist(ctx, s.transactions, s.nextID)
}

func (s *Store) persist(ctx context.Context, txs []core.Transaction, nextID int64) error {
	err := s.backend.Save(ctx, storage.Snapshot{Transactions: txs, NextID: nextID})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// All returns every transaction in insertion order.
func (s *Store) All() []core.Transaction {
	return append([]core.Transaction(nil), s.transactions...)
}

// ByKind returns the transactions of one kind in insertion order.
func (s *Store) ByKind(kind core.Kind) []core.Transaction {
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Get looks up a transaction by id.
func (s *Store) Get(id int64) (core.Transaction, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.transactions[idx], true
	}
	return core.Transaction{}, false
}

// Balance is total income minus total expenses; zero for an empty ledger.
func (s *Store) Balance() decimal.Decimal {
	return core.ComputeTotals(s.transactions).Balance
}

// Totals returns income, expense and balance together.
func (s *Store) Totals() core.Totals {
	return core.ComputeTotals(s.transactions)
}

// CategorySummary sums expense amounts per category in first-seen order.
// Categories without expenses are absent.
func (s *Store) CategorySummary() core.CategorySummary {
	return core.Summarize(s.transactions)
}

// NextID is the id the next added transaction will receive.
func (s *Store) NextID() int64 {
	return s.nextID
}

func (s *Store) Len() int {
	return len(s.transactions)
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}
