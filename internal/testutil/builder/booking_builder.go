//go:build unit || integration

package builder

import (
	"time"

	reqdto "turf-booking/internal/handler/dto/request"
	"turf-booking/internal/usecase/commands"
	"turf-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ResourceID     uuid.UUID
	ActorID        uuid.UUID
	Start          string
	DurationHours  int
	TotalCost      string
	// IdempotencyKey stays uuid.Nil unless a test opts in.
	IdempotencyKey uuid.UUID
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ResourceID:    uuid.New(),
		ActorID:       uuid.New(),
		Start:         "2025-07-15 10:00",
		DurationHours: 2,
		TotalCost:     "100.00",
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		ResourceID:     b.ResourceID,
		StartText:      b.Start,
		DurationHours:  b.DurationHours,
		IdempotencyKey: b.IdempotencyKey,
	}
}

func (b *BookingBuilder) BuildDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ResourceID:    b.ResourceID,
		Start:         b.Start,
		DurationHours: b.DurationHours,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	start, err := time.Parse("2006-01-02 15:04", b.Start)
	if err != nil {
		start = time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	}
	return &queries.BookingView{
		ID:               uuid.New(),
		ActorID:          b.ActorID,
		ResourceID:       b.ResourceID,
		ResourceName:     "Green Field Arena",
		ResourceLocation: "Koramangala, Bengaluru",
		Start:            start,
		End:              start.Add(time.Duration(b.DurationHours) * time.Hour),
		DurationHours:    b.DurationHours,
		TotalCost:        b.TotalCost,
		CreatedAt:        time.Now(),
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithResourceID(id uuid.UUID) *BookingBuilder {
	b.ResourceID = id
	return b
}

func (b *BookingBuilder) WithActorID(id uuid.UUID) *BookingBuilder {
	b.ActorID = id
	return b
}

func (b *BookingBuilder) WithStart(start string) *BookingBuilder {
	b.Start = start
	return b
}

func (b *BookingBuilder) WithDuration(hours int) *BookingBuilder {
	b.DurationHours = hours
	return b
}

func (b *BookingBuilder) WithIdempotencyKey(key uuid.UUID) *BookingBuilder {
	b.IdempotencyKey = key
	return b
}
