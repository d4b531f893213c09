package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/ledger"
	"fintrack/internal/log"

	"github.com/shopspring/decimal"
)

// LedgerService orchestrates ledger mutations and their change events.
// The ledger file is the source of truth; events are best effort.
type LedgerService struct {
	store     *ledger.Store
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewLedgerService(store *ledger.Store, publisher events.Publisher, logger *slog.Logger) *LedgerService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Add records a transaction and publishes a created event
func (s *LedgerService) Add(ctx context.Context, kind core.Kind, category string, amount decimal.Decimal, description string) (core.Transaction, error) {
	t, err := s.store.Add(ctx, kind, category, amount, description)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.publisher.Publish(ctx, events.New(events.TypeTransactionCreated, t, t.Timestamp)); err != nil {
		// Don't fail the call - transaction is saved
		s.logPublishFailure(ctx, events.TypeTransactionCreated, t, err)
	}
	return t, nil
}

// Delete removes a transaction and publishes a deleted event
func (s *LedgerService) Delete(ctx context.Context, id int64) error {
	t, _ := s.store.Get(id)
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, events.New(events.TypeTransactionDeleted, t, s.now())); err != nil {
		s.logPublishFailure(ctx, events.TypeTransactionDeleted, t, err)
	}
	return nil
}

func (s *LedgerService) logPublishFailure(ctx context.Context, eventType string, t core.Transaction, err error) {
	fields := log.NewFields().
		WithOperation(log.OpPublish).
		WithTransaction(t).
		WithError(err, log.ErrorTypeNetwork)
	fields[log.FieldEventType] = eventType
	s.logger.ErrorContext(ctx, "Failed to publish ledger event", fields.ToSlice()...)
}

func (s *LedgerService) All() []core.Transaction {
	return s.store.All()
}

func (s *LedgerService) ByKind(kind core.Kind) []core.Transaction {
	return s.store.ByKind(kind)
}

func (s *LedgerService) Get(id int64) (core.Transaction, bool) {
	return s.store.Get(id)
}

func (s *LedgerService) Balance() decimal.Decimal {
	return s.store.Balance()
}

func (s *LedgerService) Totals() core.Totals {
	return s.store.Totals()
}

func (s *LedgerService) CategorySummary() core.CategorySummary {
	return s.store.CategorySummary()
}

func (s *LedgerService) NextID() int64 {
	return s.store.NextID()
}

func (s *LedgerService) Len() int {
	return s.store.Len()
}

// Close closes both the ledger backend and the event publisher
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ledger: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
