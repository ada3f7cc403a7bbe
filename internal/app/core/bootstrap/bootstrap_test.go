package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-market/internal/config"
)

func fileConfig(dir string) config.Config {
	return config.Config{
		Export:  config.ExportConfig{Sink: config.SinkFile, Path: filepath.Join(dir, "data.txt")},
		Journal: config.JournalConfig{Path: filepath.Join(dir, "market.wal")},
	}
}

func TestBuildRecoversFromJournal(t *testing.T) {
	for _, ledgerType := range []string{config.LedgerMutex, config.LedgerLMAX} {
		t.Run(ledgerType, func(t *testing.T) {
			cfg := fileConfig(t.TempDir())
			cfg.Ledger.Type = ledgerType
			testBuildRecoversFromJournal(t, cfg)
		})
	}
}

func testBuildRecoversFromJournal(t *testing.T, cfg config.Config) {
	ctx := context.Background()

	app, err := Build(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	core := app.Core
	for _, err := range []error{
		core.CreateAccount(ctx, "alice"),
		core.CreateAccount(ctx, "bob"),
		core.Credit(ctx, "alice", decimal.NewFromInt(100)),
		core.RegisterSeller(ctx, "bob"),
		core.ListItem(ctx, "bob", "pen", decimal.NewFromInt(10), 5),
	} {
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	if _, err := core.Purchase(ctx, "alice", "bob", "pen", 3); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	again, err := Build(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	defer again.Close()

	alice, err := again.Core.GetAccount(ctx, "alice")
	if err != nil || !alice.Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("alice=%+v err=%v", alice, err)
	}
	if again.ExportTarget != cfg.Export.Path {
		t.Fatalf("export target=%q", again.ExportTarget)
	}

	n, err := again.Core.ExportTransactions(ctx)
	if err != nil || n != 1 {
		t.Fatalf("export n=%d err=%v", n, err)
	}
	data, err := os.ReadFile(cfg.Export.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasSuffix(string(data), "|alice|bob|pen|3|30|paid\n") {
		t.Fatalf("export=%q", data)
	}
}

func TestBuildFallsBackWhenRabbitMQInvalid(t *testing.T) {
	cfg := fileConfig(t.TempDir())
	cfg.Journal.Path = ""
	cfg.RabbitMQ.URL = "http://not-amqp"

	app, err := Build(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()
	if app.Core == nil {
		t.Fatal("core not built")
	}
}

func TestBuildLMAXLedgerStopsOnClose(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(t.TempDir())
	cfg.Journal.Path = ""
	cfg.Ledger = config.LedgerConfig{Type: config.LedgerLMAX, BufferSize: 8}

	app, err := Build(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := app.Core.CreateAccount(ctx, "alice"); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := app.Core.ListAccounts(ctx); !errors.Is(err, memory.ErrLedgerStopped) {
		t.Fatalf("want ErrLedgerStopped after Close, got %v", err)
	}
}

func TestBuildFailsOnUnwritableJournal(t *testing.T) {
	cfg := fileConfig(t.TempDir())
	cfg.Journal.Path = filepath.Join(t.TempDir(), "missing", "market.wal")

	if _, err := Build(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for journal in missing directory")
	}
}
