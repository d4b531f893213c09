// Package events describes ledger change notifications and the sinks they
// are published to.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fintrack/internal/core"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	TypeTransactionCreated = "transaction.created"
	TypeTransactionDeleted = "transaction.deleted"
)

// Event is a lightweight message describing one ledger mutation.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	TransactionID int64     `json:"transaction_id"`
	Kind          string    `json:"transaction_type"`
	Category      string    `json:"category"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// New builds an event for a transaction with a fresh id.
func New(eventType string, t core.Transaction, at time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		TransactionID: t.ID,
		Kind:          t.Kind.String(),
		Category:      t.Category,
		Amount:        t.Amount.String(),
		Description:   t.Description,
		OccurredAt:    at,
	}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Publisher delivers events to a sink.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Multi publishes each event to every publisher concurrently. A failing
// sink does not cancel delivery to the others; all failures are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var g errgroup.Group
	errs := make([]error, len(m))
	for i, p := range m {
		g.Go(func() error {
			errs[i] = p.Publish(ctx, e)
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
