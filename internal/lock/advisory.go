// Package lock provides MySQL advisory locking for writers of the pattern store.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLockTimeout is returned when another process holds the lock past the
// acquisition timeout.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Timeouts for lock acquisition, in seconds.
const (
	// TimeoutImmediate returns at once if the lock is taken.
	TimeoutImmediate = 0

	// TimeoutShort fails fast on a concurrent writer.
	TimeoutShort = 1

	// TimeoutMedium waits out a concurrent run recording its batch.
	TimeoutMedium = 10
)

// AdvisoryLock is a named MySQL GET_LOCK() lock. GET_LOCK is scoped to a
// session, so the lock pins one connection from the pool while held.
type AdvisoryLock struct {
	db       *sql.DB
	lockName string
	conn     *sql.Conn
}

// NewAdvisoryLock creates a lock with the given name. Nothing is acquired
// until AcquireLock is called.
func NewAdvisoryLock(db *sql.DB, lockName string) *AdvisoryLock {
	return &AdvisoryLock{db: db, lockName: lockName}
}

// NewStoreLock creates the lock guarding appends to one store table.
func NewStoreLock(db *sql.DB, table string) *AdvisoryLock {
	return NewAdvisoryLock(db, StoreLockName(table))
}

// StoreLockName returns "savescan:store:<table>" with anything outside
// [A-Za-z0-9_-] replaced by an underscore.
func StoreLockName(table string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, table)
	return "savescan:store:" + sanitized
}

// AcquireLock waits up to timeoutSeconds for the lock. It reports false when
// the timeout was reached.
//
// GET_LOCK() returns 1 on success, 0 on timeout and NULL on error.
func (a *AdvisoryLock) AcquireLock(ctx context.Context, timeoutSeconds int) (bool, error) {
	if a.conn != nil {
		return true, nil
	}
	if a.db == nil {
		return false, fmt.Errorf("database is nil")
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to reserve connection for lock %q: %w", a.lockName, err)
	}

	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.lockName, timeoutSeconds).Scan(&result); err != nil {
		conn.Close()
		return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}

	if !result.Valid {
		conn.Close()
		return false, fmt.Errorf("GET_LOCK returned NULL for lock %q", a.lockName)
	}

	switch result.Int64 {
	case 1:
		a.conn = conn
		return true, nil
	case 0:
		conn.Close()
		return false, nil
	default:
		conn.Close()
		return false, fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// ReleaseLock releases the lock and returns its connection to the pool. It
// reports false when the lock was not held.
func (a *AdvisoryLock) ReleaseLock(ctx context.Context) (bool, error) {
	if a.conn == nil {
		return false, nil
	}
	conn := a.conn
	a.conn = nil
	defer conn.Close()

	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.lockName).Scan(&result); err != nil {
		return false, fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	if !result.Valid {
		return false, fmt.Errorf("RELEASE_LOCK returned NULL for lock %q (lock did not exist)", a.lockName)
	}
	return result.Int64 == 1, nil
}

// IsHeld reports whether this instance holds the lock.
func (a *AdvisoryLock) IsHeld() bool {
	return a.conn != nil
}

// LockName returns the name of the advisory lock.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}

// WithLock runs fn while holding the lock. The lock is released even when fn
// panics.
func (a *AdvisoryLock) WithLock(ctx context.Context, timeoutSeconds int, fn func() error) error {
	acquired, err := a.AcquireLock(ctx, timeoutSeconds)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q is held by another instance", ErrLockTimeout, a.lockName)
	}

	defer func() {
		// ctx may already be canceled here.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// The session drops the lock when its connection closes anyway.
		_, _ = a.ReleaseLock(releaseCtx)
	}()

	return fn()
}
