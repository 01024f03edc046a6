package memstore

import (
	"context"

	"turf-booking/internal/infra"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// idempotencyKey mirrors the (actor_id, key) primary key.
type idempotencyKey struct {
	actorID uuid.UUID
	key     uuid.UUID
}

type idempotencyRepository struct {
	tx *memTx
}

func (r *idempotencyRepository) Find(ctx context.Context, actorID, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to find idempotency key", err)
	}
	rec, ok := r.tx.state.idempotency[idempotencyKey{actorID: actorID, key: key}]
	if !ok {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindNotFound, "idempotency key not found", nil)
	}
	return &rec, nil
}

func (r *idempotencyRepository) Insert(ctx context.Context, rec shared.IdempotencyRecord) error {
	if err := r.tx.writable("insert idempotency key"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to insert idempotency key", err)
	}

	if _, ok := r.tx.state.reservations[rec.ReservationID]; !ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindForeignKeyViolated, "idempotency key references unknown reservation", nil)
	}
	k := idempotencyKey{actorID: rec.ActorID, key: rec.Key}
	if _, ok := r.tx.state.idempotency[k]; ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindDuplicateKey, "idempotency key already exists", nil)
	}

	r.tx.state.idempotency[k] = rec
	return nil
}
