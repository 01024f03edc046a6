package memstore

import (
	"time"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/domain/resource"

	"github.com/google/uuid"
)

type resourceRow struct {
	id              uuid.UUID
	name            string
	location        string
	hourlyRateCents int64
	createdAt       time.Time
	updatedAt       time.Time
}

func resourceToRow(r *resource.Resource) resourceRow {
	return resourceRow{
		id:              r.ID(),
		name:            r.Name(),
		location:        r.Location(),
		hourlyRateCents: r.HourlyRateCents(),
		createdAt:       r.CreatedAt(),
		updatedAt:       r.UpdatedAt(),
	}
}

func (r resourceRow) toDomain() *resource.Resource {
	return resource.ReconstructResource(r.id, r.name, r.location, r.hourlyRateCents, r.createdAt, r.updatedAt)
}

type reservationRow struct {
	id             uuid.UUID
	actorID        uuid.UUID
	resourceID     uuid.UUID
	start          time.Time
	end            time.Time
	durationHours  int
	totalCostCents int64
	createdAt      time.Time
}

func reservationToRow(r *reservation.Reservation) reservationRow {
	return reservationRow{
		id:             r.ID(),
		actorID:        r.ActorID(),
		resourceID:     r.ResourceID(),
		start:          r.Start(),
		end:            r.End(),
		durationHours:  r.DurationHours(),
		totalCostCents: r.TotalCost().Cents(),
		createdAt:      r.CreatedAt(),
	}
}

func (r reservationRow) toDomain() (*reservation.Reservation, error) {
	interval, err := reservation.NewInterval(r.start, r.durationHours)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		r.id, r.actorID, r.resourceID, interval, reservation.NewMoney(r.totalCostCents), r.createdAt,
	), nil
}

// overlaps is the store-level backstop, equivalent to the tstzrange exclusion constraint.
func (r reservationRow) overlaps(other reservationRow) bool {
	return r.resourceID == other.resourceID && r.start.Before(other.end) && other.start.Before(r.end)
}
