package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/pkg/wal"
)

func TestWALJournalReplayKeepsOrderAndValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.log")

	w, err := wal.NewWAL(path)
	if err != nil {
		t.Fatal(err)
	}
	j := NewWALJournal(w)

	id := uuid.New()
	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	events := []*domain.Event{
		{Type: domain.EventAccountCreated, Owner: "alice", At: at},
		{Type: domain.EventCredited, Owner: "alice", Amount: decimal.RequireFromString("100.25"), At: at},
		{Type: domain.EventItemListed, Seller: "bob", Item: "pen", Price: decimal.NewFromInt(10), Stock: 5, At: at},
		{Type: domain.EventPurchased, At: at, Transaction: &domain.Transaction{
			TransactionID: id, Buyer: "alice", Seller: "bob", Item: "pen", Qty: 3,
			Total: decimal.NewFromInt(30), Status: domain.StatusPaid, Date: at,
		}},
	}
	for _, e := range events {
		if err := j.Append(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	_ = w.Close()

	w2, err := wal.NewWAL(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w2.Close()

	var got []*domain.Event
	if err := NewWALJournal(w2).Replay(ctx, func(e *domain.Event) error {
		got = append(got, e)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if len(got) != len(events) {
		t.Fatalf("events=%d want=%d", len(got), len(events))
	}
	for i := range events {
		if got[i].Type != events[i].Type {
			t.Fatalf("event[%d] type=%s want=%s", i, got[i].Type, events[i].Type)
		}
	}
	if !got[1].Amount.Equal(decimal.RequireFromString("100.25")) {
		t.Fatalf("amount=%s", got[1].Amount)
	}
	tran := got[3].Transaction
	if tran == nil || tran.TransactionID != id || !tran.Total.Equal(decimal.NewFromInt(30)) || !tran.Date.Equal(at) {
		t.Fatalf("transaction unexpected: %+v", tran)
	}
}
