package response

import (
	"time"

	"turf-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// BookingResponse renders instants in the booking zone as "yyyy-MM-dd HH:mm".
type BookingResponse struct {
	ID               uuid.UUID `json:"id"`
	ActorID          uuid.UUID `json:"actor_id"`
	ResourceID       uuid.UUID `json:"resource_id"`
	ResourceName     string    `json:"resource_name"`
	ResourceLocation string    `json:"resource_location"`
	Start            string    `json:"start" copier:"-"`
	End              string    `json:"end" copier:"-"`
	DurationHours    int       `json:"duration_hours"`
	TotalCost        string    `json:"total_cost"`
	CreatedAt        time.Time `json:"created_at"`
}

const wallClockLayout = "2006-01-02 15:04"

func FromBookingView(v *queries.BookingView, loc *time.Location) *BookingResponse {
	resp := &BookingResponse{}
	_ = copier.Copy(resp, v)
	resp.Start = v.Start.In(loc).Format(wallClockLayout)
	resp.End = v.End.In(loc).Format(wallClockLayout)
	return resp
}

func FromBookingList(items []*queries.BookingView, loc *time.Location) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(items))
	for _, v := range items {
		out = append(out, FromBookingView(v, loc))
	}
	return out
}

// BookingListResponse is the envelope of every booking list endpoint.
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

func NewBookingListResponse(items []*queries.BookingView, loc *time.Location) BookingListResponse {
	return BookingListResponse{Bookings: FromBookingList(items, loc)}
}
