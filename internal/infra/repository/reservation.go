package repository

import (
	"context"
	"log/slog"
	"time"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/infra"
	"turf-booking/internal/infra/db"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var reservationColumns = []string{
	"id",
	"actor_id",
	"resource_id",
	"start_at",
	"duration_hours",
	"total_cost_cents",
	"created_at",
}

type ReservationRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationRepository(dbtx db.DBTX, logger *slog.Logger) *ReservationRepository {
	return &ReservationRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *ReservationRepository) Insert(ctx context.Context, res *reservation.Reservation) error {
	query, args, err := psql.Insert("reservations").
		Columns(
			"id",
			"actor_id",
			"resource_id",
			"start_at",
			"end_at",
			"duration_hours",
			"total_cost_cents",
			"created_at",
		).
		Values(
			res.ID(),
			res.ActorID(),
			res.ResourceID(),
			res.Start(),
			res.End(),
			res.DurationHours(),
			res.TotalCost().Cents(),
			res.CreatedAt(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build reservation insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapPgErr(r.logger, "failed to insert reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	list, err := r.list(ctx, squirrel.Eq{"id": id}, "start_at")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "reservation not found", nil)
	}
	return list[0], nil
}

func (r *ReservationRepository) ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*reservation.Reservation, error) {
	return r.list(ctx, squirrel.Eq{"resource_id": resourceID}, "start_at ASC")
}

func (r *ReservationRepository) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*reservation.Reservation, error) {
	return r.list(ctx, squirrel.Eq{"actor_id": actorID}, "start_at DESC", "created_at DESC")
}

func (r *ReservationRepository) ListAll(ctx context.Context) ([]*reservation.Reservation, error) {
	return r.list(ctx, nil, "start_at DESC", "created_at DESC")
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build reservation delete", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "reservation not found", nil)
	}
	return nil
}

func (r *ReservationRepository) list(ctx context.Context, where squirrel.Sqlizer, orderBy ...string) ([]*reservation.Reservation, error) {
	builder := psql.Select(reservationColumns...).From("reservations")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.OrderBy(orderBy...).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build reservation select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to query reservations", err)
	}

	list, err := pgx.CollectRows(rows, scanReservation)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to scan reservations", err)
	}
	return list, nil
}

func scanReservation(row pgx.CollectableRow) (*reservation.Reservation, error) {
	var (
		id, actorID, resourceID uuid.UUID
		start, createdAt        time.Time
		hours                   int
		costCents               int64
	)
	if err := row.Scan(&id, &actorID, &resourceID, &start, &hours, &costCents, &createdAt); err != nil {
		return nil, err
	}

	interval, err := reservation.NewInterval(start, hours)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		id, actorID, resourceID, interval, reservation.NewMoney(costCents), createdAt,
	), nil
}
