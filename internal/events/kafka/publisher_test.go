package kafka

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/events"
)

func TestMessage(t *testing.T) {
	e := events.Event{
		ID:            "evt-9",
		Type:          events.TypeTransactionDeleted,
		TransactionID: 42,
		OccurredAt:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	msg, err := message(e)
	if err != nil {
		t.Fatal(err)
	}
	if string(msg.Key) != "42" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != events.TypeTransactionDeleted {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}
	back, err := events.FromJSON(msg.Value)
	if err != nil || back.ID != "evt-9" {
		t.Fatalf("unexpected value %s (err=%v)", msg.Value, err)
	}
}

func TestNewPublisherConfiguresWriter(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "ledger_events")
	if p.writer.Topic != "ledger_events" || p.writer.Addr.String() != "localhost:9092" {
		t.Fatalf("unexpected writer %+v", p.writer)
	}
	if p.writer.WriteTimeout != publishTimeout || p.writer.BatchTimeout >= time.Second {
		t.Fatalf("writer must be time-bounded: write=%v batch=%v", p.writer.WriteTimeout, p.writer.BatchTimeout)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close idle writer: %v", err)
	}
}

func TestPublishUnreachableBrokerIsBounded(t *testing.T) {
	p := NewPublisher([]string{"127.0.0.1:1"}, "ledger_events")
	defer p.Close()

	start := time.Now()
	err := p.Publish(context.Background(), events.Event{ID: "evt-1", Type: events.TypeTransactionCreated, TransactionID: 1})
	if err == nil {
		t.Fatal("expected error for unreachable broker")
	}
	if elapsed := time.Since(start); elapsed > publishTimeout+time.Second {
		t.Fatalf("publish blocked for %v", elapsed)
	}
}
