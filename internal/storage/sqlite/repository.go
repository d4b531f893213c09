// Package sqlite stores ledger snapshots in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db   *sql.DB
	path string
}

var _ storage.Backend = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer; keeps the whole-snapshot replace on one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, path: dbPath}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements storage.Backend. A database without a meta row has never
// been saved to and reads as not found.
func (r *Repository) Load(ctx context.Context) (storage.Snapshot, bool, error) {
	snap := storage.Snapshot{NextID: 1}

	err := r.db.QueryRowContext(ctx, `SELECT next_id FROM ledger_meta WHERE id = 1`).Scan(&snap.NextID)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, false, nil
	}
	if err != nil {
		return storage.Snapshot{}, false, fmt.Errorf("read ledger meta: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, category, amount, description, created_at FROM transactions ORDER BY id`)
	if err != nil {
		return storage.Snapshot{}, true, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                                      int64
			kind, category, amount, desc, createdAt string
		)
		if err := rows.Scan(&id, &kind, &category, &amount, &desc, &createdAt); err != nil {
			return storage.Snapshot{}, true, fmt.Errorf("scan transaction: %w", err)
		}
		t, err := fromRow(id, kind, category, amount, desc, createdAt)
		if err != nil {
			return storage.Snapshot{}, true, fmt.Errorf("%w: transaction %d: %w", storage.ErrCorrupt, id, err)
		}
		snap.Transactions = append(snap.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return storage.Snapshot{}, true, fmt.Errorf("iterate transactions: %w", err)
	}

	if err := snap.Check(); err != nil {
		return storage.Snapshot{}, true, err
	}
	return snap, true, nil
}

// Save implements storage.Backend. The snapshot replaces the stored rows
// inside a single SQL transaction.
func (r *Repository) Save(ctx context.Context, snap storage.Snapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (id, kind, category, amount, description, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range snap.Transactions {
		if _, err = stmt.ExecContext(ctx, t.ID, t.Kind.String(), t.Category, t.Amount.String(), t.Description, t.Date()); err != nil {
			return fmt.Errorf("insert transaction %d: %w", t.ID, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_meta (id, next_id) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET next_id = excluded.next_id`, snap.NextID); err != nil {
		return fmt.Errorf("update ledger meta: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Ledger snapshot saved to SQLite",
		"path", r.path,
		"transactions", len(snap.Transactions),
		"next_id", snap.NextID)
	return nil
}

func fromRow(id int64, kind, category, amount, desc, createdAt string) (core.Transaction, error) {
	k, err := core.ParseKind(kind)
	if err != nil {
		return core.Transaction{}, err
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	ts, err := time.ParseInLocation(core.DateLayout, createdAt, time.Local)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("created_at %q: %w", createdAt, err)
	}
	return core.Transaction{
		ID:          id,
		Kind:        k,
		Category:    category,
		Amount:      a,
		Description: desc,
		Timestamp:   ts,
	}, nil
}
