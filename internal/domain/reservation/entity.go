package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingActor    = errors.New("reservation requires an actor")
	ErrMissingResource = errors.New("reservation requires a resource")
	ErrNonPositiveCost = errors.New("reservation cost must be positive")
)

// Reservation is immutable once created: there is no reschedule, and
// cancellation deletes it.
type Reservation struct {
	id         uuid.UUID
	actorID    uuid.UUID
	resourceID uuid.UUID
	interval   Interval
	totalCost  Money
	createdAt  time.Time
}

func NewReservation(
	actorID, resourceID uuid.UUID,
	interval Interval,
	totalCost Money,
	createdAt time.Time,
) (*Reservation, error) {
	if actorID == uuid.Nil {
		return nil, ErrMissingActor
	}
	if resourceID == uuid.Nil {
		return nil, ErrMissingResource
	}
	if err := ValidateDuration(interval.DurationHours()); err != nil {
		return nil, err
	}
	if !totalCost.IsPositive() {
		return nil, ErrNonPositiveCost
	}

	return &Reservation{
		id:         uuid.New(),
		actorID:    actorID,
		resourceID: resourceID,
		interval:   interval,
		totalCost:  totalCost,
		createdAt:  createdAt,
	}, nil
}

func ReconstructReservation(
	id, actorID, resourceID uuid.UUID,
	interval Interval,
	totalCost Money,
	createdAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		actorID:    actorID,
		resourceID: resourceID,
		interval:   interval,
		totalCost:  totalCost,
		createdAt:  createdAt,
	}
}

func (r *Reservation) IsOwnedBy(actorID uuid.UUID) bool {
	return r.actorID == actorID
}

// HasStarted is true from the start instant onwards.
func (r *Reservation) HasStarted(now time.Time) bool {
	return !r.interval.Start().After(now)
}

func (r *Reservation) ID() uuid.UUID         { return r.id }
func (r *Reservation) ActorID() uuid.UUID    { return r.actorID }
func (r *Reservation) ResourceID() uuid.UUID { return r.resourceID }
func (r *Reservation) Interval() Interval    { return r.interval }
func (r *Reservation) Start() time.Time      { return r.interval.Start() }
func (r *Reservation) End() time.Time        { return r.interval.End() }
func (r *Reservation) DurationHours() int    { return r.interval.DurationHours() }
func (r *Reservation) TotalCost() Money      { return r.totalCost }
func (r *Reservation) CreatedAt() time.Time  { return r.createdAt }
