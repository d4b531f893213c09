package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

type recorder struct {
	mu     sync.Mutex
	got    []Event
	err    error
	closed bool
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e)
	return r.err
}

func (r *recorder) Close() error {
	r.closed = true
	return r.err
}

func sampleTx() core.Transaction {
	return core.Transaction{
		ID:          12,
		Kind:        core.Expense,
		Category:    "Food",
		Amount:      decimal.RequireFromString("19.99"),
		Description: "pizza",
		Timestamp:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	e := New(TypeTransactionCreated, sampleTx(), at)
	if e.ID == "" || e.Type != TypeTransactionCreated || e.TransactionID != 12 {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.Kind != "expense" || e.Amount != "19.99" || !e.OccurredAt.Equal(at) {
		t.Fatalf("unexpected payload %+v", e)
	}
	if other := New(TypeTransactionCreated, sampleTx(), at); other.ID == e.ID {
		t.Fatalf("event ids must be unique")
	}
}

func TestEventJSON(t *testing.T) {
	e := New(TypeTransactionDeleted, sampleTx(), time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	data, err := e.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != e.ID || back.Type != e.Type || back.Category != e.Category || !back.OccurredAt.Equal(e.OccurredAt) {
		t.Fatalf("decoded %+v, want %+v", back, e)
	}
	if _, err := FromJSON([]byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMultiPublishesToAll(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, b}
	if err := m.Publish(context.Background(), New(TypeTransactionCreated, sampleTx(), time.Now())); err != nil {
		t.Fatal(err)
	}
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Fatalf("expected both sinks to receive the event")
	}
	if err := m.Close(); err != nil || !a.closed || !b.closed {
		t.Fatalf("close: %v", err)
	}
}

func TestMultiReportsFailure(t *testing.T) {
	boom := errors.New("broker down")
	m := Multi{&recorder{}, &recorder{err: boom}}
	if err := m.Publish(context.Background(), New(TypeTransactionCreated, sampleTx(), time.Now())); !errors.Is(err, boom) {
		t.Fatalf("expected broker error, got %v", err)
	}
	if err := m.Close(); !errors.Is(err, boom) {
		t.Fatalf("expected close error, got %v", err)
	}
}

// slowPublisher waits before delivering and records the context state it saw.
type slowPublisher struct {
	delay  time.Duration
	ctxErr error
	got    int
}

func (s *slowPublisher) Publish(ctx context.Context, _ Event) error {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
	s.ctxErr = ctx.Err()
	if s.ctxErr == nil {
		s.got++
	}
	return s.ctxErr
}

func (s *slowPublisher) Close() error { return nil }

func TestMultiFailureDoesNotCancelOtherSinks(t *testing.T) {
	boom := errors.New("amqp down")
	slow := &slowPublisher{delay: 50 * time.Millisecond}
	m := Multi{&recorder{err: boom}, slow}

	err := m.Publish(context.Background(), New(TypeTransactionCreated, sampleTx(), time.Now()))
	if !errors.Is(err, boom) {
		t.Fatalf("expected broker error, got %v", err)
	}
	if slow.ctxErr != nil || slow.got != 1 {
		t.Fatalf("slow sink was interrupted: ctxErr=%v delivered=%d", slow.ctxErr, slow.got)
	}
}

func TestMultiJoinsAllFailures(t *testing.T) {
	a, b := errors.New("amqp down"), errors.New("kafka down")
	m := Multi{&recorder{err: a}, &recorder{err: b}}
	err := m.Publish(context.Background(), New(TypeTransactionCreated, sampleTx(), time.Now()))
	if !errors.Is(err, a) || !errors.Is(err, b) {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), Event{}); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}
