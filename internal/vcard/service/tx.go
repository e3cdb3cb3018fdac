package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dErrors "vcardimport/pkg/domain-errors"
	"vcardimport/pkg/platform/tx"
)

// defaultImportTxTimeout bounds one import transaction when the caller set
// no deadline.
const defaultImportTxTimeout = 5 * time.Second

// ImportTx provides the transactional boundary of one import. fn receives a
// context carrying the transaction so stores join it.
type ImportTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// sqlImportTx runs fn inside a database transaction.
type sqlImportTx struct {
	db      *sql.DB
	timeout time.Duration
}

func (t *sqlImportTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel, err := boundTx(ctx, t.timeout)
	if err != nil {
		return err
	}
	defer cancel()

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}
	return nil
}

// contextImportTx is used without a database; stores apply writes directly.
type contextImportTx struct {
	timeout time.Duration
}

func (t *contextImportTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel, err := boundTx(ctx, t.timeout)
	if err != nil {
		return err
	}
	defer cancel()
	return fn(ctx)
}

func boundTx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return ctx, func() {}, dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if timeout == 0 {
		timeout = defaultImportTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, cancel, nil
}
