package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/ledger"
	"fintrack/internal/storage/jsonfile"

	"github.com/shopspring/decimal"
)

type recordingPublisher struct {
	events []events.Event
	err    error
	closed bool
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) Close() error {
	r.closed = true
	return nil
}

func newService(t *testing.T, pub events.Publisher) *LedgerService {
	t.Helper()
	return newServiceWithLog(t, pub, io.Discard)
}

func newServiceWithLog(t *testing.T, pub events.Publisher, w io.Writer) *LedgerService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(w, nil))
	clock := ledger.FixedClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local))
	store, err := ledger.Open(context.Background(),
		jsonfile.New(filepath.Join(t.TempDir(), "finance_data.json")),
		ledger.WithClock(clock), ledger.WithLogger(logger))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	return NewLedgerService(store, pub, logger)
}

func TestLedgerService_AddPublishesCreated(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, pub)

	tx, err := svc.Add(context.Background(), core.Income, "Salary", decimal.NewFromInt(3000), "March")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	e := pub.events[0]
	if e.Type != events.TypeTransactionCreated || e.TransactionID != tx.ID || e.Amount != "3000" {
		t.Fatalf("unexpected event %+v", e)
	}
	if !e.OccurredAt.Equal(tx.Timestamp) {
		t.Fatalf("event time %v, want %v", e.OccurredAt, tx.Timestamp)
	}
}

func TestLedgerService_PublishFailureDoesNotFail(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	var logs bytes.Buffer
	svc := newServiceWithLog(t, pub, &logs)
	ctx := context.Background()

	tx, err := svc.Add(ctx, core.Expense, "Food", decimal.NewFromInt(20), "")
	if err != nil {
		t.Fatalf("Add should succeed despite publish failure: %v", err)
	}
	if err := svc.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("Delete should succeed despite publish failure: %v", err)
	}
	if len(svc.All()) != 0 {
		t.Fatal("transaction should be deleted")
	}

	out := logs.String()
	for _, want := range []string{
		"operation=publish",
		"error_type=network_error",
		"event_type=transaction.created",
		"event_type=transaction.deleted",
		"category=Food",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLedgerService_Delete(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, pub)
	ctx := context.Background()

	tx, _ := svc.Add(ctx, core.Expense, "Rent", decimal.NewFromInt(800), "")
	if err := svc.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(pub.events) != 2 || pub.events[1].Type != events.TypeTransactionDeleted || pub.events[1].Category != "Rent" {
		t.Fatalf("unexpected events %+v", pub.events)
	}

	err := svc.Delete(ctx, tx.ID)
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatal("failed delete must not publish")
	}
}

func TestLedgerService_ValidationNotPublished(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, pub)

	_, err := svc.Add(context.Background(), core.Expense, " ", decimal.NewFromInt(1), "")
	if !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("rejected add must not publish")
	}
}

func TestLedgerService_Queries(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	svc.Add(ctx, core.Income, "Salary", decimal.NewFromInt(1000), "")
	svc.Add(ctx, core.Expense, "Food", decimal.NewFromInt(50), "")
	svc.Add(ctx, core.Expense, "Food", decimal.NewFromInt(25), "")

	if got := svc.Balance(); !got.Equal(decimal.NewFromInt(925)) {
		t.Fatalf("balance = %s", got)
	}
	if got := len(svc.ByKind(core.Expense)); got != 2 {
		t.Fatalf("expenses = %d", got)
	}
	if got, _ := svc.CategorySummary().Get("Food"); !got.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("Food = %s", got)
	}
	if tot := svc.Totals(); !tot.Expenses.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("totals = %+v", tot)
	}
	if _, ok := svc.Get(2); !ok {
		t.Fatal("expected transaction 2")
	}
	if svc.Len() != 3 || svc.NextID() != 4 {
		t.Fatalf("len=%d next=%d", svc.Len(), svc.NextID())
	}
}

func TestLedgerService_Close(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pub.closed {
		t.Fatal("publisher should be closed")
	}
}
