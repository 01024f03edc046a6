package queries

import (
	"time"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/domain/resource"

	"github.com/google/uuid"
)

// ResourceView is the catalog entry handed to the HTTP layer.
type ResourceView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	HourlyRate string    `json:"hourly_rate"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookingView is a reservation enriched with its resource's display data.
type BookingView struct {
	ID               uuid.UUID `json:"id"`
	ActorID          uuid.UUID `json:"actor_id"`
	ResourceID       uuid.UUID `json:"resource_id"`
	ResourceName     string    `json:"resource_name"`
	ResourceLocation string    `json:"resource_location"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	DurationHours    int       `json:"duration_hours"`
	TotalCost        string    `json:"total_cost"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewResourceView(r *resource.Resource) *ResourceView {
	return &ResourceView{
		ID:         r.ID(),
		Name:       r.Name(),
		Location:   r.Location(),
		HourlyRate: reservation.NewMoney(r.HourlyRateCents()).String(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
}

// NewBookingView tolerates a nil resource; the name and location stay empty.
func NewBookingView(res *reservation.Reservation, r *resource.Resource) *BookingView {
	v := &BookingView{
		ID:            res.ID(),
		ActorID:       res.ActorID(),
		ResourceID:    res.ResourceID(),
		Start:         res.Start(),
		End:           res.End(),
		DurationHours: res.DurationHours(),
		TotalCost:     res.TotalCost().String(),
		CreatedAt:     res.CreatedAt(),
	}
	if r != nil {
		v.ResourceName = r.Name()
		v.ResourceLocation = r.Location()
	}
	return v
}
