package applier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3/lock"
	"go.uber.org/zap"

	"github.com/jrush-vj/note-taking/internal/db/dberrors"
)

// Applier executes a schema as a single batch on one connection and commits it.
type Applier struct {
	db     *sql.DB
	locker lock.SessionLocker
	logger *zap.Logger
}

type Option func(a *Applier) error

// WithSessionLock serializes concurrent appliers on a Postgres session advisory
// lock held for the whole apply. The lock is polled once per second until
// timeout elapses.
func WithSessionLock(lockID int64, timeout time.Duration) Option {
	return func(a *Applier) error {
		attempts := uint64(timeout / time.Second)
		if attempts < 1 {
			attempts = 1
		}

		locker, err := lock.NewPostgresSessionLocker(
			lock.WithLockID(lockID),
			lock.WithLockTimeout(1, attempts),
			lock.WithUnlockTimeout(1, 5),
		)
		if err != nil {
			return fmt.Errorf("failed to create session locker: %w", err)
		}

		a.locker = locker

		return nil
	}
}

func WithLocker(locker lock.SessionLocker) Option {
	return func(a *Applier) error {
		a.locker = locker

		return nil
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Applier) error {
		a.logger = l

		return nil
	}
}

func New(db *sql.DB, opts ...Option) (*Applier, error) {
	a := &Applier{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Apply runs schema exactly as given inside one transaction. The statement is
// sent without arguments so the server receives it through the simple query
// protocol, which accepts several statements in one command.
func (a *Applier) Apply(ctx context.Context, schema string) error {
	start := time.Now()

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && !errors.Is(closeErr, sql.ErrConnDone) {
			a.logger.Warn("failed to release connection", zap.Error(closeErr))
		}
	}()

	if a.locker != nil {
		if err := a.locker.SessionLock(ctx, conn); err != nil {
			return fmt.Errorf("failed to acquire schema lock: %w", err)
		}
		a.logger.Debug("schema lock acquired")

		defer func() {
			unlockCtx := context.WithoutCancel(ctx)
			if unlockErr := a.locker.SessionUnlock(unlockCtx, conn); unlockErr != nil {
				a.logger.Warn("failed to release schema lock", zap.Error(unlockErr))
			}
		}()
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			a.logger.Warn("failed to roll back schema transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		a.logger.Debug("schema execution failed", dberrors.Fields(err)...)

		return err
	}

	if err := tx.Commit(); err != nil {
		a.logger.Debug("schema commit failed", dberrors.Fields(err)...)

		return err
	}

	a.logger.Debug("schema committed", zap.Duration("duration", time.Since(start)))

	return nil
}
