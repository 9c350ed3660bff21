package postgres

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*AdvisoryLock)(nil)

// ErrLockPoolExhausted is returned when every lock connection is in use
var ErrLockPoolExhausted = fmt.Errorf("%w: advisory lock pool exhausted", domain.ErrServiceUnavailable)

// AdvisoryLock implements DistributedLock with PostgreSQL advisory locks.
//
// Advisory locks are session-scoped: they are held by the connection that
// took them and vanish when that connection closes. Each held lock pins one
// connection until Release, so the lock must run on its own pool (see
// Config.LockPool) and holders are capped at that pool's size. The ttl
// arguments are ignored and Extend does nothing.
type AdvisoryLock struct {
	db    *DB
	conns *connSet
	slots chan struct{}
}

// NewAdvisoryLock creates a lock on db allowing at most maxHolders locks at once.
// maxHolders should equal db's MaxOpenConns.
func NewAdvisoryLock(db *DB, maxHolders int) *AdvisoryLock {
	if maxHolders <= 0 {
		maxHolders = DefaultLockPoolSize
	}
	return &AdvisoryLock{db: db, conns: newConnSet(), slots: make(chan struct{}, maxHolders)}
}

// hashLockName maps a lock name to the int64 key pg_try_advisory_lock takes
func hashLockName(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte("docchat:lock:" + name))
	return int64(h.Sum64())
}

// Acquire tries the lock without blocking. When every lock connection is
// pinned it fails with ErrLockPoolExhausted instead of waiting for one.
func (l *AdvisoryLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	select {
	case l.slots <- struct{}{}:
	default:
		return false, ErrLockPoolExhausted
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		<-l.slots
		return false, err
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", hashLockName(name)).Scan(&acquired); err != nil {
		conn.Close()
		<-l.slots
		return false, err
	}
	if !acquired {
		conn.Close()
		<-l.slots
		return false, nil
	}

	l.conns.put(name, conn)
	return true, nil
}

// Release unlocks on the connection that acquired the lock and returns it
// to the pool. Releasing a lock this process does not hold is a no-op.
func (l *AdvisoryLock) Release(ctx context.Context, name string) error {
	conn := l.conns.take(name)
	if conn == nil {
		return nil
	}
	defer func() {
		conn.Close()
		<-l.slots
	}()

	var released bool
	return conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", hashLockName(name)).Scan(&released)
}

// Extend is a no-op: advisory locks do not expire.
func (l *AdvisoryLock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	return nil
}

// Ping checks if the lock pool can reach PostgreSQL.
func (l *AdvisoryLock) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}
