package driven

import (
	"context"
	"time"
)

// DistributedLock serialises work on a named resource across instances.
// The chat service uses it to run at most one turn per conversation at a time.
type DistributedLock interface {
	// Acquire attempts to take the named lock for ttl.
	// Returns false, nil when another holder has it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release gives the lock back. Safe to call when the lock has expired.
	Release(ctx context.Context, name string) error

	// Extend pushes out the expiry of a held lock.
	// PostgreSQL advisory locks have no TTL and treat this as a no-op.
	Extend(ctx context.Context, name string, ttl time.Duration) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
