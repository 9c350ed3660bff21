package postgres

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/docchat")

	if cfg.MaxOpenConns != 10 || cfg.MaxIdleConns != 2 {
		t.Errorf("unexpected pool size open=%d idle=%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute || cfg.ConnMaxIdleTime != time.Minute {
		t.Errorf("unexpected lifetimes %v/%v", cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime)
	}
}

func TestConfig_IdleNeverExceedsOpen(t *testing.T) {
	cfg := Config{MaxOpenConns: 1, MaxIdleConns: 5}.withDefaults()
	if cfg.MaxIdleConns != 1 {
		t.Errorf("expected idle capped at 1, got %d", cfg.MaxIdleConns)
	}
}

func TestSchema_RequiresPgvector(t *testing.T) {
	if !strings.HasPrefix(strings.TrimSpace(schema), "CREATE EXTENSION IF NOT EXISTS vector") {
		t.Error("expected the schema to create the vector extension first")
	}
}
