package commands

import (
	"context"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// HasConflict lists the resource's reservations inside tx and reports
// whether any of them overlaps candidate.
func HasConflict(ctx context.Context, tx shared.Tx, resourceID uuid.UUID, candidate reservation.Interval) (bool, error) {
	existing, err := tx.Reservations().ListByResource(ctx, resourceID)
	if err != nil {
		return false, err
	}
	_, found := reservation.FindConflict(existing, candidate)
	return found, nil
}
