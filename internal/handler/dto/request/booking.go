package request

import (
	"turf-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// CreateBookingRequest carries the start as local wall-clock text; the engine
// parses and range-checks it so the error kinds stay distinguishable.
type CreateBookingRequest struct {
	ResourceID    uuid.UUID `json:"resource_id" binding:"required"`
	Start         string    `json:"start" binding:"required"`
	DurationHours int       `json:"duration_hours"`
}

// ToParams attaches the Idempotency-Key header value; uuid.Nil when absent.
func (r CreateBookingRequest) ToParams(idempotencyKey uuid.UUID) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		ResourceID:     r.ResourceID,
		StartText:      r.Start,
		DurationHours:  r.DurationHours,
		IdempotencyKey: idempotencyKey,
	}
}
