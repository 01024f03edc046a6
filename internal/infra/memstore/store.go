package memstore

import (
	"context"
	"log/slog"
	"maps"

	"turf-booking/internal/infra"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store is an in-process persistence store. Transactions are fully
// serialized and work on a private copy that replaces the live state on
// commit, so a failed transaction leaves nothing behind.
type Store struct {
	gate   chan struct{}
	state  *state
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	return &Store{
		gate:   make(chan struct{}, 1),
		state:  newState(),
		logger: logger,
	}
}

// NewUoW exposes the store through the unit of work contract.
func NewUoW(s *Store) shared.UnitOfWork {
	return s
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, false, fn)
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, true, fn)
}

func (s *Store) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, false, fn)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	work := s.state
	if !readOnly {
		work = s.state.clone()
	}
	tx := &memTx{state: work, readOnly: readOnly, logger: s.logger}

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindTimeout, "transaction aborted before commit", err)
	}
	if !readOnly {
		s.state = work
	}
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.gate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return infra.WrapRepoErr(s.logger, infra.KindTimeout, "waiting for store", ctx.Err())
	}
}

func (s *Store) release() {
	<-s.gate
}

type state struct {
	resources    map[uuid.UUID]resourceRow
	reservations map[uuid.UUID]reservationRow
	idempotency  map[idempotencyKey]shared.IdempotencyRecord
}

func newState() *state {
	return &state{
		resources:    make(map[uuid.UUID]resourceRow),
		reservations: make(map[uuid.UUID]reservationRow),
		idempotency:  make(map[idempotencyKey]shared.IdempotencyRecord),
	}
}

// Rows are plain values, so a shallow map copy is a full snapshot.
func (s *state) clone() *state {
	return &state{
		resources:    maps.Clone(s.resources),
		reservations: maps.Clone(s.reservations),
		idempotency:  maps.Clone(s.idempotency),
	}
}

type memTx struct {
	state    *state
	readOnly bool
	logger   *slog.Logger

	reservationRepo shared.ReservationRepository
	resourceRepo    shared.ResourceRepository
	idempotencyRepo shared.IdempotencyRepository
}

func (t *memTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = &reservationRepository{tx: t}
	}
	return t.reservationRepo
}

func (t *memTx) Resources() shared.ResourceRepository {
	if t.resourceRepo == nil {
		t.resourceRepo = &resourceRepository{tx: t}
	}
	return t.resourceRepo
}

func (t *memTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = &idempotencyRepository{tx: t}
	}
	return t.idempotencyRepo
}

func (t *memTx) writable(op string) error {
	if t.readOnly {
		return infra.WrapRepoErr(t.logger, infra.KindDBFailure, op+" in read-only transaction", nil)
	}
	return nil
}
