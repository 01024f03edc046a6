package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"turf-booking/internal/infra"
	"turf-booking/internal/infra/db"
	"turf-booking/internal/infra/repository"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/pkg/metrics"
	"turf-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// RetryPolicy bounds how often a SERIALIZABLE transaction is replayed after
// losing a serialization race. Waits grow as base * 2^attempt plus up to 20% jitter.
type RetryPolicy struct {
	MaxRetries int
	Base       time.Duration
}

func RetryPolicyFromConfig(cfg config.DBConfig) RetryPolicy {
	return RetryPolicy{MaxRetries: cfg.TxMaxRetries, Base: cfg.TxBackoffBase}
}

func (p RetryPolicy) shouldRetry(err error, attempt int) bool {
	return retryableState(err) != "" && attempt < p.MaxRetries
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	wait := time.Duration(1<<attempt) * p.Base
	if jitter := int64(wait / 5); jitter > 0 {
		wait += time.Duration(rand.Int64N(jitter))
	}
	return wait
}

type PostgresUoW struct {
	pool     *pgxpool.Pool
	policy   RetryPolicy
	recorder metrics.Recorder
	logger   *slog.Logger
}

func NewPostgresUoW(pool *pgxpool.Pool, policy RetryPolicy, recorder metrics.Recorder, logger *slog.Logger) shared.UnitOfWork {
	return &PostgresUoW{
		pool:     pool,
		policy:   policy,
		recorder: recorder,
		logger:   logger,
	}
}

// Within runs fn in a SERIALIZABLE transaction so a conflict query and the
// insert that depends on it commit as one decision. Concurrent writers on the
// same resource fail with 40001 and fn is replayed from scratch.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}

	for attempt := 0; ; attempt++ {
		err := u.attempt(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !u.policy.shouldRetry(err, attempt) {
			if state := retryableState(err); state != "" {
				u.logger.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"sqlstate", state,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		state := retryableState(err)
		u.recorder.TransactionRetried(state)
		wait := u.policy.backoff(attempt)
		u.logger.Warn("retrying serializable transaction",
			"attempt", attempt+1,
			"sqlstate", state,
			"wait_ms", wait.Milliseconds())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return infra.WrapRepoErr(u.logger, infra.KindTimeout, "transaction retry aborted", ctx.Err())
		case <-timer.C:
		}
	}
}

// attempt owns exactly one pgx transaction; it is committed or rolled back
// before returning so retries never hold more than one connection.
func (u *PostgresUoW) attempt(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return infra.WrapPgErr(u.logger, "failed to begin transaction", errs.Mark(err, errTransactionBegin))
	}
	defer u.rollback(ctx, pgxTx)

	if err := fn(ctx, u.newTx(pgxTx)); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return infra.WrapPgErr(u.logger, "failed to commit transaction", errs.Mark(err, errTransactionCommit))
	}
	return nil
}

// WithinReadOnly gives history and schedule reads one consistent snapshot
// across the reservations and resources tables.
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.attempt(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead}, fn)
}

// WithDB runs fn directly on the pool, one statement per call.
func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.newTx(u.pool))
}

func (u *PostgresUoW) newTx(dbtx db.DBTX) *pgTx {
	return &pgTx{dbtx: dbtx, logger: u.logger}
}

func (u *PostgresUoW) rollback(ctx context.Context, tx pgx.Tx) {
	// The caller's context may already be done; rollback still has to reach the server.
	err := tx.Rollback(context.WithoutCancel(ctx))
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		u.logger.Warn("rollback failed", "error", err.Error())
	}
}

// retryableState returns the SQLSTATE when err is a serialization failure or
// a deadlock, and "" otherwise.
func retryableState(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	switch pgErr.Code {
	case infra.PgErrSerializationFailure, infra.PgErrDeadlockDetected:
		return pgErr.Code
	default:
		return ""
	}
}

type pgTx struct {
	dbtx   db.DBTX
	logger *slog.Logger

	reservations shared.ReservationRepository
	resources    shared.ResourceRepository
	idempotency  shared.IdempotencyRepository
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservations == nil {
		t.reservations = repository.NewReservationRepository(t.dbtx, t.logger)
	}
	return t.reservations
}

func (t *pgTx) Resources() shared.ResourceRepository {
	if t.resources == nil {
		t.resources = repository.NewResourceRepository(t.dbtx, t.logger)
	}
	return t.resources
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotency == nil {
		t.idempotency = repository.NewIdempotencyRepository(t.dbtx, t.logger)
	}
	return t.idempotency
}
