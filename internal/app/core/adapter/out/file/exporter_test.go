package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
)

func sample(buyer, item string, qty int, total string) domain.Transaction {
	return domain.Transaction{
		Buyer:  buyer,
		Seller: "bob",
		Item:   item,
		Qty:    qty,
		Total:  decimal.RequireFromString(total),
		Status: domain.StatusPaid,
		Date:   time.Date(2026, 10, 16, 12, 0, 0, 0, time.Local),
	}
}

func TestFormatLine(t *testing.T) {
	tran := sample("alice", "pen", 3, "30")
	if got, want := FormatLine(&tran), "2026-10-16|alice|bob|pen|3|30|paid"; got != want {
		t.Fatalf("line=%q want=%q", got, want)
	}
	tran = sample("alice", "ink", 2, "12.50")
	if got, want := FormatLine(&tran), "2026-10-16|alice|bob|ink|2|12.5|paid"; got != want {
		t.Fatalf("line=%q want=%q", got, want)
	}
}

func TestExportOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.txt")
	e := NewExporter(path)

	txs := []domain.Transaction{sample("alice", "pen", 3, "30"), sample("carol", "cup", 1, "4")}
	if err := e.Export(ctx, txs); err != nil {
		t.Fatal(err)
	}
	if err := e.Export(ctx, txs); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "2026-10-16|alice|bob|pen|3|30|paid\n2026-10-16|carol|bob|cup|1|4|paid\n"
	if string(data) != want {
		t.Fatalf("file=%q want=%q", data, want)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	// 空紀錄也會覆蓋成空檔
	if err := e.Export(ctx, nil); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if len(data) != 0 {
		t.Fatalf("expect empty file, got %q", data)
	}
}

func TestExportFailsOnMissingDirectory(t *testing.T) {
	e := NewExporter(filepath.Join(t.TempDir(), "missing", "data.txt"))
	if err := e.Export(context.Background(), []domain.Transaction{sample("a", "b", 1, "1")}); err == nil {
		t.Fatal("expect error for missing directory")
	}
}
