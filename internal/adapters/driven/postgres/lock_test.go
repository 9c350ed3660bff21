package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

func TestHashLockName(t *testing.T) {
	a := hashLockName("conversation:abc")
	b := hashLockName("conversation:abc")
	c := hashLockName("conversation:abd")

	if a != b {
		t.Error("expected the same key for the same name")
	}
	if a == c {
		t.Error("expected different keys for different names")
	}
}

func TestConnSet(t *testing.T) {
	s := newConnSet()
	conn := &sql.Conn{}

	s.put("conversation:1", conn)
	if s.len() != 1 {
		t.Fatalf("expected 1 tracked connection, got %d", s.len())
	}
	if got := s.take("conversation:1"); got != conn {
		t.Error("expected the stored connection back")
	}
	if got := s.take("conversation:1"); got != nil {
		t.Error("expected nil after take")
	}
	if s.len() != 0 {
		t.Errorf("expected empty set, got %d", s.len())
	}
}

func TestAdvisoryLock_ReleaseUnheld(t *testing.T) {
	lock := NewAdvisoryLock(nil, 1)
	if err := lock.Release(context.Background(), "never-acquired"); err != nil {
		t.Errorf("expected no error releasing an unheld lock, got %v", err)
	}
	if err := lock.Extend(context.Background(), "never-acquired", 0); err != nil {
		t.Errorf("expected Extend to be a no-op, got %v", err)
	}
}

func TestAdvisoryLock_PoolExhausted(t *testing.T) {
	lock := NewAdvisoryLock(nil, 2)
	lock.slots <- struct{}{}
	lock.slots <- struct{}{}

	acquired, err := lock.Acquire(context.Background(), "conversation:1", 0)
	if acquired {
		t.Error("expected no lock when the pool is exhausted")
	}
	if !errors.Is(err, ErrLockPoolExhausted) {
		t.Fatalf("expected ErrLockPoolExhausted, got %v", err)
	}
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Error("expected exhaustion to surface as service unavailable")
	}
}

func TestAdvisoryLock_FailedConnFreesSlot(t *testing.T) {
	// sql.Open does not dial; Conn fails on the cancelled context
	sqlDB, err := sql.Open("postgres", "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sqlDB.Close()

	lock := NewAdvisoryLock(&DB{DB: sqlDB}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 3; i++ {
		acquired, err := lock.Acquire(ctx, "conversation:1", 0)
		if acquired {
			t.Fatal("expected no lock without a server")
		}
		if err == nil || errors.Is(err, ErrLockPoolExhausted) {
			t.Fatalf("attempt %d: expected a connection error, got %v", i, err)
		}
	}
	if len(lock.slots) != 0 {
		t.Errorf("expected all slots free, got %d held", len(lock.slots))
	}
}

func TestConfig_LockPool(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/docchat")

	pool := cfg.LockPool(4)
	if pool.MaxOpenConns != 4 || pool.MaxIdleConns != 4 {
		t.Errorf("expected a 4 connection pool, got open=%d idle=%d", pool.MaxOpenConns, pool.MaxIdleConns)
	}
	if pool.URL != cfg.URL {
		t.Errorf("expected URL %q, got %q", cfg.URL, pool.URL)
	}
	if got := cfg.LockPool(0).MaxOpenConns; got != DefaultLockPoolSize {
		t.Errorf("expected default size %d, got %d", DefaultLockPoolSize, got)
	}
}
