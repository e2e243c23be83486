package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// lockConn is a dedicated session. Advisory locks belong to the session that took them, so
// the same connection must run both the lock and the unlock.
type lockConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Release()
}

// AdvisoryLocker takes Postgres session advisory locks keyed by name, so runs in separate
// processes exclude each other.
type AdvisoryLocker struct {
	acquire func(ctx context.Context) (lockConn, error)
}

// NewAdvisoryLocker builds a locker over pool.
func NewAdvisoryLocker(pool *pgxpool.Pool) *AdvisoryLocker {
	return &AdvisoryLocker{acquire: func(ctx context.Context) (lockConn, error) {
		return pool.Acquire(ctx)
	}}
}

// TryLock attempts to take the lock without waiting. ok is false when another session holds
// it. release must be called exactly once when ok is true.
func (l *AdvisoryLocker) TryLock(ctx context.Context, name string) (release func(), ok bool, err error) {
	conn, err := l.acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock connection: %w", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock(hashtext($1))", name).Scan(&locked); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock %q: %w", name, err)
	}
	if !locked {
		conn.Release()
		return nil, false, nil
	}

	return func() {
		var unlocked bool
		// The caller's context may already be cancelled when the run ends.
		if err := conn.QueryRow(context.Background(), "SELECT pg_advisory_unlock(hashtext($1))", name).Scan(&unlocked); err != nil || !unlocked {
			log.Printf("lock=%s event=unlock_failed err=%v", name, err)
		}
		conn.Release()
	}, true, nil
}
