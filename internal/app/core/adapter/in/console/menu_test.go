package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-market/internal/logger"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 16, 10, 30, 0, 0, time.Local)
}

func runMenu(t *testing.T, input string, opts ...usecase.Option) (string, *usecase.CoreUseCase) {
	t.Helper()
	opts = append([]usecase.Option{usecase.WithClock(fixedClock)}, opts...)
	core := usecase.NewCoreUseCase(memory.NewMutexLedger(), memory.NewStore(), opts...)
	out := &bytes.Buffer{}
	menu := NewMenu(core, strings.NewReader(input), out, "data.txt")
	if err := menu.Run(logger.WithContext(context.Background(), zerolog.Nop())); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), core
}

func assertContains(t *testing.T, output string, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if !strings.Contains(output, line) {
			t.Errorf("output missing %q\n--- output ---\n%s", line, output)
		}
	}
}

func TestMenuScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	input := `1 alice
1 bob
2 alice 100
4 bob
5 bob pen 10 5
6 alice bob pen 3
7
8
9
10
`
	output, core := runMenu(t, input, usecase.WithExporter(file.NewExporter(path)))

	assertContains(t, output,
		"=== MENU ===",
		"[BANK] Bank account for alice created.",
		"[BANK] Topup 100 to alice (balance 100).",
		"[STORE] Seller bob registered.",
		"[STORE] Item pen added.",
		"[STORE] Purchase completed: alice bought 3 pen from bob.",
		"2026-10-16 | alice -> bob | pen x3 | 30 | paid",
		"pen : 3 sold",
		"- alice\n- bob\n",
		"[STORE] 1 transaction(s) saved to data.txt.",
		"Exiting...",
	)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if got := string(data); got != "2026-10-16|alice|bob|pen|3|30|paid\n" {
		t.Fatalf("export=%q", got)
	}

	alice, err := core.GetAccount(context.Background(), "alice")
	if err != nil || alice.Balance.String() != "70" {
		t.Fatalf("alice=%+v err=%v", alice, err)
	}
}

func TestMenuFailureMessages(t *testing.T) {
	input := `1 alice
1 alice
3 alice 5
2 nobody 5
4 carol
5 alice pen 1 1
1 bob
2 alice 10
4 bob
5 bob pen 6 2
6 alice bob pen 3
6 alice bob pen 2
6 alice bob cup 1
42
`
	output, core := runMenu(t, input)

	assertContains(t, output,
		"[BANK] Account already exists.",
		"[BANK] Insufficient balance.",
		"[BANK] Account not found.",
		"[STORE] Seller needs a bank account first.",
		"[STORE] Seller not registered.",
		"[STORE] Insufficient stock.",
		"[STORE] Buyer balance too low.",
		"[STORE] Item not available.",
		"Invalid choice.",
		"[ERROR] Could not save transactions to data.txt",
	)

	pen, err := core.GetItem(context.Background(), "bob", "pen")
	if err != nil || pen.Stock != 2 || pen.Sold != 0 {
		t.Fatalf("pen=%+v err=%v", pen, err)
	}
}

func TestMenuSkipsUnparsableInput(t *testing.T) {
	output, core := runMenu(t, "abc 1 alice 2 alice ten 9")

	assertContains(t, output,
		"[BANK] Bank account for alice created.",
		`Invalid number "ten".`,
		"- alice",
		"Exiting...",
	)
	alice, err := core.GetAccount(context.Background(), "alice")
	if err != nil || !alice.Balance.IsZero() {
		t.Fatalf("alice=%+v err=%v", alice, err)
	}
}

func TestMenuLogsWithContextLogger(t *testing.T) {
	core := usecase.NewCoreUseCase(memory.NewMutexLedger(), memory.NewStore())
	logs := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(logs))

	menu := NewMenu(core, strings.NewReader("abc"), &bytes.Buffer{}, "missing/dir/data.txt")
	if err := menu.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := logs.String()
	for _, want := range []string{
		`"component":"console"`,
		`"export_target":"missing/dir/data.txt"`,
		`"input":"abc"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("logs missing %s\n%s", want, got)
		}
	}
}

func TestMenuEOFMidCommandExits(t *testing.T) {
	output, core := runMenu(t, "1")

	assertContains(t, output, "Name: ", "Exiting...")
	owners, err := core.ListAccounts(context.Background())
	if err != nil || len(owners) != 0 {
		t.Fatalf("owners=%v err=%v", owners, err)
	}
}
