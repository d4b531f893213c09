package log

import (
	"errors"
	"log/slog"

	"fintrack/internal/ledger"
)

// ErrorType classifies an error for the error_type field.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return ErrorTypeValidation
	case errors.Is(err, ledger.ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, ledger.ErrPersistence):
		return ErrorTypePersistence
	case errors.Is(err, ledger.ErrLoad):
		return ErrorTypeLoad
	default:
		return ErrorTypeInternal
	}
}

// LogFailure records a failed operation with its classified error type.
func LogFailure(logger *slog.Logger, op string, err error) {
	fields := NewFields().WithOperation(op).WithError(err, ErrorType(err))
	logger.Error("Operation failed", fields.ToSlice()...)
}
