package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.Sink != SinkFile || cfg.Export.Path != "data.txt" {
		t.Fatalf("export defaults: %+v", cfg.Export)
	}
	if cfg.Log.Level != "info" || cfg.GRPC.Addr != ":50051" || cfg.Journal.Path != "" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Ledger.Type != LedgerMutex || cfg.Ledger.BufferSize != 1000 {
		t.Fatalf("ledger defaults: %+v", cfg.Ledger)
	}
	if cfg.MySQL.Port != 3306 {
		t.Fatalf("mysql defaults not applied: %+v", cfg.MySQL)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
log:
  level: debug
ledger:
  type: lmax
  buffer_size: 64
export:
  path: out/tx.txt
  schedule: "@every 1m"
journal:
  path: market.wal
grpc:
  addr: ":6000"
mysql:
  host: db
  db_name: market
  conn_max_lifetime: 5m
rabbitmq:
  url: amqp://guest:guest@mq:5672/
  exchange: shop
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Export.Path != "out/tx.txt" || cfg.Export.Schedule != "@every 1m" {
		t.Fatalf("unexpected: %+v", cfg)
	}
	if cfg.Ledger.Type != LedgerLMAX || cfg.Ledger.BufferSize != 64 {
		t.Fatalf("ledger: %+v", cfg.Ledger)
	}
	if cfg.Journal.Path != "market.wal" || cfg.GRPC.Addr != ":6000" {
		t.Fatalf("unexpected: %+v", cfg)
	}
	if cfg.MySQL.Host != "db" || cfg.MySQL.ConnMaxLifetime != 5*time.Minute {
		t.Fatalf("mysql: %+v", cfg.MySQL)
	}
	if cfg.RabbitMQ.Exchange != "shop" || cfg.RabbitMQ.RoutingKey != "" {
		t.Fatalf("rabbitmq: %+v", cfg.RabbitMQ)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "export:\n  path: a.txt\n")
	envFile := writeFile(t, dir, ".env", "MARKET_MYSQL_PORT=3307\nMARKET_GRPC_ADDR=:7000\n")
	// godotenv 直接寫入 process 環境變數
	t.Cleanup(func() { os.Unsetenv("MARKET_MYSQL_PORT") })

	t.Setenv("MARKET_EXPORT_PATH", "b.txt")
	t.Setenv("MARKET_GRPC_ADDR", ":8000")
	t.Setenv("MARKET_LEDGER_TYPE", "lmax")

	cfg, err := Load(path, envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.Path != "b.txt" {
		t.Fatalf("export path=%q want=b.txt", cfg.Export.Path)
	}
	// 環境變數優先於 .env
	if cfg.GRPC.Addr != ":8000" {
		t.Fatalf("grpc addr=%q want=:8000", cfg.GRPC.Addr)
	}
	if cfg.MySQL.Port != 3307 {
		t.Fatalf("mysql port=%d want=3307", cfg.MySQL.Port)
	}
	if cfg.Ledger.Type != LedgerLMAX {
		t.Fatalf("ledger type=%q want=lmax", cfg.Ledger.Type)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := writeFile(t, dir, "bad.yaml", "log: [unclosed")
	if _, err := Load(bad); err == nil {
		t.Fatal("expected parse error")
	}

	sink := writeFile(t, dir, "sink.yaml", "export:\n  sink: s3\n")
	if _, err := Load(sink); err == nil {
		t.Fatal("expected unknown sink error")
	}

	ledger := writeFile(t, dir, "ledger.yaml", "ledger:\n  type: disruptor\n")
	if _, err := Load(ledger); err == nil {
		t.Fatal("expected unknown ledger type error")
	}

	noHost := writeFile(t, dir, "mysql.yaml", "export:\n  sink: mysql\n")
	if _, err := Load(noHost); err == nil {
		t.Fatal("expected mysql sink without host to fail")
	}

	t.Setenv("MARKET_MYSQL_PORT", "abc")
	if _, err := Load(""); err == nil {
		t.Fatal("expected invalid port error")
	}
}
