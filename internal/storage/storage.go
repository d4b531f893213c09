// Package storage defines the persistence port of the ledger.
package storage

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

// ErrCorrupt marks persisted data that exists but does not match the schema.
var ErrCorrupt = errors.New("corrupt ledger data")

// Snapshot is the full persisted state of a ledger.
type Snapshot struct {
	Transactions []core.Transaction
	NextID       int64
}

// Backend loads and saves whole-ledger snapshots.
type Backend interface {
	// Load returns the stored snapshot. found is false when nothing has been
	// persisted yet; corrupt data is reported as an error wrapping ErrCorrupt.
	Load(ctx context.Context) (snap Snapshot, found bool, err error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error

	Close() error
}

// Check verifies the snapshot invariants: every transaction is valid, ids are
// unique and all strictly below NextID.
func (s Snapshot) Check() error {
	if s.NextID < 1 {
		return fmt.Errorf("%w: next_id %d must be positive", ErrCorrupt, s.NextID)
	}
	seen := make(map[int64]struct{}, len(s.Transactions))
	for i, t := range s.Transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: transaction #%d: %w", ErrCorrupt, i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate transaction_id %d", ErrCorrupt, t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.ID >= s.NextID {
			return fmt.Errorf("%w: transaction_id %d not below next_id %d", ErrCorrupt, t.ID, s.NextID)
		}
	}
	return nil
}

// MaxID returns the largest transaction id, or 0 for an empty snapshot.
func (s Snapshot) MaxID() int64 {
	var maxID int64
	for _, t := range s.Transactions {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}
