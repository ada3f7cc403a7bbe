package mysql

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
)

func TestToRows(t *testing.T) {
	id := uuid.New()
	txs := []domain.Transaction{{
		Sequence:      7,
		TransactionID: id,
		Buyer:         "alice",
		Seller:        "bob",
		Item:          "pen",
		Qty:           3,
		Total:         decimal.NewFromInt(30),
		Status:        domain.StatusPaid,
		Date:          time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local),
	}}

	rows := toRows(txs)
	if len(rows) != 1 {
		t.Fatalf("rows=%d want=1", len(rows))
	}
	r := rows[0]
	if !bytes.Equal(r.RefID, id[:]) {
		t.Fatalf("ref id mismatch")
	}
	if r.Sequence != 7 || r.Date != "2026-10-16" || r.Buyer != "alice" || r.Seller != "bob" ||
		r.Item != "pen" || r.Qty != 3 || !r.Total.Equal(decimal.NewFromInt(30)) || r.Status != "paid" {
		t.Fatalf("row unexpected: %+v", r)
	}
}

func TestToRowsDoesNotAliasIDs(t *testing.T) {
	txs := []domain.Transaction{{TransactionID: uuid.New()}, {TransactionID: uuid.New()}}
	rows := toRows(txs)
	if bytes.Equal(rows[0].RefID, rows[1].RefID) {
		t.Fatal("ref ids share the same backing array")
	}
}
