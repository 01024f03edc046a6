package reservation

import (
	"turf-booking/internal/domain/resource"
	"turf-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator) *Factory {
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
	}
}

// CreateReservation snapshots the resource's current hourly rate into the
// reservation's total cost.
func (f *Factory) CreateReservation(
	resourceEntity *resource.Resource,
	actorID uuid.UUID,
	interval Interval,
) (*Reservation, error) {
	totalCost := f.PriceCalculator.Cost(NewMoney(resourceEntity.HourlyRateCents()), interval.DurationHours())

	return NewReservation(
		actorID,
		resourceEntity.ID(),
		interval,
		totalCost,
		f.Clock.Now(),
	)
}
