package ledger

import "errors"

// Error kinds returned by the Store. Returned errors wrap one of these and,
// where there is one, the underlying cause.
var (
	// ErrValidation rejects input to Add; the ledger is unchanged.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means no transaction has the requested id; the ledger is unchanged.
	ErrNotFound = errors.New("transaction not found")
	// ErrPersistence means the backend could not save; the in-memory ledger
	// keeps its state from before the operation.
	ErrPersistence = errors.New("persist ledger")
	// ErrLoad means persisted data exists but could not be read or is invalid.
	ErrLoad = errors.New("load ledger")
)
