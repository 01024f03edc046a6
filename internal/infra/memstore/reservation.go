package memstore

import (
	"context"
	"sort"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/infra"

	"github.com/google/uuid"
)

type reservationRepository struct {
	tx *memTx
}

func (r *reservationRepository) Insert(ctx context.Context, res *reservation.Reservation) error {
	if err := r.tx.writable("insert reservation"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to insert reservation", err)
	}

	row := reservationToRow(res)
	if _, ok := r.tx.state.resources[row.resourceID]; !ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindForeignKeyViolated, "reservation references unknown resource", nil)
	}
	if _, ok := r.tx.state.reservations[row.id]; ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindDuplicateKey, "reservation already exists", nil)
	}
	for _, existing := range r.tx.state.reservations {
		if existing.overlaps(row) {
			return infra.WrapRepoErr(r.tx.logger, infra.KindExclusionViolated, "reservation overlaps an existing one", nil)
		}
	}

	r.tx.state.reservations[row.id] = row
	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to find reservation", err)
	}
	row, ok := r.tx.state.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindNotFound, "reservation not found", nil)
	}
	return r.toDomain(row)
}

func (r *reservationRepository) ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*reservation.Reservation, error) {
	rows := r.filter(func(row reservationRow) bool { return row.resourceID == resourceID })
	sort.Slice(rows, func(i, j int) bool { return rows[i].start.Before(rows[j].start) })
	return r.collect(ctx, rows)
}

func (r *reservationRepository) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*reservation.Reservation, error) {
	rows := r.filter(func(row reservationRow) bool { return row.actorID == actorID })
	sortNewestFirst(rows)
	return r.collect(ctx, rows)
}

func (r *reservationRepository) ListAll(ctx context.Context) ([]*reservation.Reservation, error) {
	rows := r.filter(func(reservationRow) bool { return true })
	sortNewestFirst(rows)
	return r.collect(ctx, rows)
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.tx.writable("delete reservation"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to delete reservation", err)
	}
	if _, ok := r.tx.state.reservations[id]; !ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindNotFound, "reservation not found", nil)
	}
	delete(r.tx.state.reservations, id)
	// ON DELETE CASCADE
	for k, rec := range r.tx.state.idempotency {
		if rec.ReservationID == id {
			delete(r.tx.state.idempotency, k)
		}
	}
	return nil
}

func (r *reservationRepository) filter(keep func(reservationRow) bool) []reservationRow {
	var rows []reservationRow
	for _, row := range r.tx.state.reservations {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (r *reservationRepository) collect(ctx context.Context, rows []reservationRow) ([]*reservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to list reservations", err)
	}
	out := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := r.toDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *reservationRepository) toDomain(row reservationRow) (*reservation.Reservation, error) {
	res, err := row.toDomain()
	if err != nil {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindDBFailure, "corrupt reservation row", err)
	}
	return res, nil
}

func sortNewestFirst(rows []reservationRow) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].start.Equal(rows[j].start) {
			return rows[i].start.After(rows[j].start)
		}
		return rows[i].createdAt.After(rows[j].createdAt)
	})
}
