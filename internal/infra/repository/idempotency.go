package repository

import (
	"context"
	"log/slog"

	"turf-booking/internal/infra"
	"turf-booking/internal/infra/db"
	"turf-booking/internal/usecase/shared"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type IdempotencyRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewIdempotencyRepository(dbtx db.DBTX, logger *slog.Logger) *IdempotencyRepository {
	return &IdempotencyRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *IdempotencyRepository) Find(ctx context.Context, actorID, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	query, args, err := psql.Select("key", "actor_id", "reservation_id", "request_hash", "created_at").
		From("idempotency_keys").
		Where(squirrel.Eq{"actor_id": actorID, "key": key}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build idempotency key select", err)
	}

	var rec shared.IdempotencyRecord
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&rec.Key, &rec.ActorID, &rec.ReservationID, &rec.RequestHash, &rec.CreatedAt)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find idempotency key", err)
	}
	return &rec, nil
}

func (r *IdempotencyRepository) Insert(ctx context.Context, rec shared.IdempotencyRecord) error {
	query, args, err := psql.Insert("idempotency_keys").
		Columns("key", "actor_id", "reservation_id", "request_hash", "created_at").
		Values(rec.Key, rec.ActorID, rec.ReservationID, rec.RequestHash, rec.CreatedAt).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build idempotency key insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapPgErr(r.logger, "failed to insert idempotency key", err)
	}
	return nil
}
