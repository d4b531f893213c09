// Package jsonfile persists the ledger as a single JSON document.
//
// The document layout is shared with existing data files:
//
//	{
//	    "transactions": [
//	        {
//	            "transaction_id": 1,
//	            "transaction_type": "income",
//	            "category": "Salary",
//	            "amount": 5000,
//	            "description": "",
//	            "date": "2025-01-31 09:00:00"
//	        }
//	    ],
//	    "next_id": 2
//	}
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

type (
	record struct {
		TransactionID   int64       `json:"transaction_id"`
		TransactionType string      `json:"transaction_type"`
		Category        string      `json:"category"`
		Amount          json.Number `json:"amount"`
		Description     string      `json:"description"`
		Date            string      `json:"date"`
	}

	document struct {
		Transactions []record `json:"transactions"`
		NextID       int64    `json:"next_id"`
	}

	// rawDocument distinguishes missing keys from zero values on load.
	rawDocument struct {
		Transactions *[]record `json:"transactions"`
		NextID       *int64    `json:"next_id"`
	}
)

// Store reads and writes the ledger file at a fixed path.
type Store struct {
	path string
	loc  *time.Location
}

var _ storage.Backend = (*Store)(nil)

// New returns a file backend. Dates are interpreted in the local time zone.
func New(path string) *Store {
	return &Store{path: path, loc: time.Local}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load implements storage.Backend.
func (s *Store) Load(ctx context.Context) (storage.Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Ledger file not found, starting empty", "path", s.path)
		return storage.Snapshot{NextID: 1}, false, nil
	}
	if err != nil {
		return storage.Snapshot{}, false, fmt.Errorf("read %s: %w", s.path, err)
	}

	snap, err := decode(data, s.loc)
	if err != nil {
		return storage.Snapshot{}, true, fmt.Errorf("%s: %w", s.path, err)
	}
	return snap, true, nil
}

// Save implements storage.Backend. The document is written to a temporary
// file in the same directory and renamed over the target.
func (s *Store) Save(ctx context.Context, snap storage.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Ledger file written",
		"path", s.path,
		"transactions", len(snap.Transactions),
		"next_id", snap.NextID,
		"bytes", len(data))
	return nil
}

// Close implements storage.Backend.
func (s *Store) Close() error {
	return nil
}

func encode(snap storage.Snapshot) ([]byte, error) {
	doc := document{
		Transactions: make([]record, 0, len(snap.Transactions)),
		NextID:       snap.NextID,
	}
	for _, t := range snap.Transactions {
		doc.Transactions = append(doc.Transactions, toRecord(t))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, loc *time.Location) (storage.Snapshot, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return storage.Snapshot{}, fmt.Errorf("%w: %w", storage.ErrCorrupt, err)
	}
	if raw.Transactions == nil {
		return storage.Snapshot{}, fmt.Errorf("%w: missing \"transactions\"", storage.ErrCorrupt)
	}

	snap := storage.Snapshot{Transactions: make([]core.Transaction, 0, len(*raw.Transactions))}
	for i, r := range *raw.Transactions {
		t, err := fromRecord(r, loc)
		if err != nil {
			return storage.Snapshot{}, fmt.Errorf("%w: transaction #%d: %w", storage.ErrCorrupt, i, err)
		}
		snap.Transactions = append(snap.Transactions, t)
	}

	// Older files may lack next_id; continue after the highest id.
	if raw.NextID != nil {
		snap.NextID = *raw.NextID
	} else {
		snap.NextID = snap.MaxID() + 1
	}

	if err := snap.Check(); err != nil {
		return storage.Snapshot{}, err
	}
	return snap, nil
}

func toRecord(t core.Transaction) record {
	return record{
		TransactionID:   t.ID,
		TransactionType: t.Kind.String(),
		Category:        t.Category,
		Amount:          json.Number(t.Amount.String()),
		Description:     t.Description,
		Date:            t.Date(),
	}
}

func fromRecord(r record, loc *time.Location) (core.Transaction, error) {
	kind, err := core.ParseKind(r.TransactionType)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction_type %q: %w", r.TransactionType, err)
	}
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", r.Amount, err)
	}
	ts, err := time.ParseInLocation(core.DateLayout, r.Date, loc)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", r.Date, err)
	}
	return core.Transaction{
		ID:          r.TransactionID,
		Kind:        kind,
		Category:    r.Category,
		Amount:      amount,
		Description: r.Description,
		Timestamp:   ts,
	}, nil
}
