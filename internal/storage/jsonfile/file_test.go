package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

func sampleSnapshot() storage.Snapshot {
	ts := time.Date(2025, 2, 1, 9, 30, 0, 0, time.Local)
	return storage.Snapshot{
		Transactions: []core.Transaction{
			{ID: 1, Kind: core.Income, Category: "Salary", Amount: decimal.NewFromInt(5000), Description: "January", Timestamp: ts},
			{ID: 3, Kind: core.Expense, Category: "Food", Amount: decimal.RequireFromString("50.25"), Description: "", Timestamp: ts.Add(time.Hour)},
		},
		NextID: 4,
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "finance_data.json"))
	snap, found, err := s.Load(context.Background())
	if err != nil || found {
		t.Fatalf("expected not found without error, got found=%v err=%v", found, err)
	}
	if snap.NextID != 1 || len(snap.Transactions) != 0 {
		t.Fatalf("unexpected empty snapshot %+v", snap)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "finance_data.json")
	s := New(path)
	want := sampleSnapshot()

	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, found, err := s.Load(context.Background())
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if got.NextID != want.NextID || len(got.Transactions) != len(want.Transactions) {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	for i := range want.Transactions {
		w, g := want.Transactions[i], got.Transactions[i]
		if g.ID != w.ID || g.Kind != w.Kind || g.Category != w.Category ||
			!g.Amount.Equal(w.Amount) || g.Description != w.Description || !g.Timestamp.Equal(w.Timestamp) {
			t.Fatalf("transaction %d mismatch: got %+v want %+v", i, g, w)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the ledger file, found %d entries", len(entries))
	}
}

func TestSaveWritesFixedFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance_data.json")
	if err := New(path).Save(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if generic["next_id"].(float64) != 4 {
		t.Fatalf("unexpected next_id %v", generic["next_id"])
	}
	first := generic["transactions"].([]any)[0].(map[string]any)
	for _, key := range []string{"transaction_id", "transaction_type", "category", "amount", "description", "date"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("missing key %q in %v", key, first)
		}
	}
	if len(first) != 6 {
		t.Fatalf("unexpected extra keys in %v", first)
	}
	if _, isNumber := first["amount"].(float64); !isNumber {
		t.Fatalf("amount must be a JSON number, got %T", first["amount"])
	}
	if first["date"] != "2025-02-01 09:30:00" || first["transaction_type"] != "income" {
		t.Fatalf("unexpected record %v", first)
	}
	if !strings.Contains(string(data), "\n    \"transactions\"") {
		t.Fatalf("expected 4-space indentation:\n%s", data)
	}
}

func TestSaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance_data.json")
	if err := New(path).Save(context.Background(), storage.Snapshot{NextID: 7}); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"transactions": []`) {
		t.Fatalf("expected empty array, got:\n%s", data)
	}
	snap, found, err := New(path).Load(context.Background())
	if err != nil || !found || snap.NextID != 7 {
		t.Fatalf("unexpected load: %+v found=%v err=%v", snap, found, err)
	}
}

func TestLoadLegacyFile(t *testing.T) {
	// Written by the earlier tool: float amounts, no trailing newline.
	legacy := `{
    "transactions": [
        {
            "transaction_id": 1,
            "transaction_type": "income",
            "category": "Salary",
            "amount": 5000.0,
            "description": "",
            "date": "2024-05-01 10:00:00"
        },
        {
            "transaction_id": 2,
            "transaction_type": "expense",
            "category": "Food",
            "amount": 12.75,
            "description": "lunch",
            "date": "2024-05-02 13:15:42"
        }
    ],
    "next_id": 5
}`
	path := filepath.Join(t.TempDir(), "finance_data.json")
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, found, err := New(path).Load(context.Background())
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if snap.NextID != 5 || len(snap.Transactions) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.Transactions[0].Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected amount %s", snap.Transactions[0].Amount)
	}
	if snap.Transactions[1].Date() != "2024-05-02 13:15:42" {
		t.Fatalf("unexpected date %s", snap.Transactions[1].Date())
	}
}

func TestLoadMissingNextIDContinuesAfterMax(t *testing.T) {
	doc := `{"transactions": [
		{"transaction_id": 4, "transaction_type": "expense", "category": "Food", "amount": 1, "description": "", "date": "2024-05-01 10:00:00"},
		{"transaction_id": 9, "transaction_type": "expense", "category": "Food", "amount": 2, "description": "", "date": "2024-05-01 10:00:00"}
	]}`
	path := filepath.Join(t.TempDir(), "finance_data.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, _, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.NextID != 10 {
		t.Fatalf("expected next_id 10, got %d", snap.NextID)
	}
}

func TestLoadCorrupt(t *testing.T) {
	rec := func(fields string) string {
		return `{"transactions": [{` + fields + `}], "next_id": 10}`
	}
	base := `"transaction_id": 1, "transaction_type": "expense", "category": "Food", "description": ""`
	cases := map[string]string{
		"empty file":        ``,
		"not json":          `{"transactions": [`,
		"null document":     `null`,
		"missing key":       `{"next_id": 3}`,
		"bad kind":          rec(`"transaction_id": 1, "transaction_type": "gift", "category": "Food", "amount": 1, "description": "", "date": "2024-05-01 10:00:00"`),
		"zero amount":       rec(base + `, "amount": 0, "date": "2024-05-01 10:00:00"`),
		"negative amount":   rec(base + `, "amount": -5, "date": "2024-05-01 10:00:00"`),
		"missing amount":    rec(base + `, "date": "2024-05-01 10:00:00"`),
		"bad date":          rec(base + `, "amount": 1, "date": "01/05/2024"`),
		"empty category":    rec(`"transaction_id": 1, "transaction_type": "expense", "category": "", "amount": 1, "description": "", "date": "2024-05-01 10:00:00"`),
		"zero id":           rec(`"transaction_id": 0, "transaction_type": "expense", "category": "Food", "amount": 1, "description": "", "date": "2024-05-01 10:00:00"`),
		"string id":         rec(`"transaction_id": "1", "transaction_type": "expense", "category": "Food", "amount": 1, "description": "", "date": "2024-05-01 10:00:00"`),
		"next_id too small": `{"transactions": [{` + base + `, "amount": 1, "date": "2024-05-01 10:00:00"}], "next_id": 1}`,
		"duplicate ids": `{"transactions": [{` + base + `, "amount": 1, "date": "2024-05-01 10:00:00"}, {` +
			base + `, "amount": 2, "date": "2024-05-01 10:00:00"}], "next_id": 5}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "finance_data.json")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, err := New(path).Load(context.Background())
			if !errors.Is(err, storage.ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestSaveFailureLeavesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finance_data.json")
	s := New(path)
	if err := s.Save(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	before, _ := os.ReadFile(path)

	// A directory in place of the target makes the rename fail.
	blocked := New(filepath.Join(dir, "blocked"))
	if err := os.Mkdir(filepath.Join(dir, "blocked"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "blocked", "keep"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := blocked.Save(context.Background(), sampleSnapshot()); err == nil {
		t.Fatalf("expected save over a directory to fail")
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Fatalf("existing ledger file changed")
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}
