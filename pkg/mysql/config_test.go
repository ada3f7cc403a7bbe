package mysql

import (
	"testing"
	"time"
)

func TestConfigDefaultsAndDSN(t *testing.T) {
	cfg := Config{Host: "db", User: "market", Password: "secret", DBName: "market"}
	cfg.ApplyDefaults()

	if cfg.Port != 3306 || cfg.MaxRetries != 5 || cfg.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	want := "market:secret@tcp(db:3306)/market?charset=utf8mb4&parseTime=True&loc=Local"
	if got := cfg.DSN(); got != want {
		t.Fatalf("dsn=%q want=%q", got, want)
	}

	custom := Config{Port: 3307, MaxRetries: 1}
	custom.ApplyDefaults()
	if custom.Port != 3307 || custom.MaxRetries != 1 {
		t.Fatalf("explicit values overwritten: %+v", custom)
	}
}
