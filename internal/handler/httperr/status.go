package httperr

import (
	"errors"
	"net/http"

	"turf-booking/internal/pkg/errs"
)

// Outcome is the client-facing rendering of an engine failure.
type Outcome struct {
	Status  int
	Code    string
	Message string
}

type mapping struct {
	target error
	status int
	code   string
}

// Checked in order. Client-facing kinds echo the sentinel text.
var engineStatuses = []mapping{
	{errs.ErrParse, http.StatusBadRequest, "INVALID_START"},
	{errs.ErrDuration, http.StatusBadRequest, "INVALID_DURATION"},
	{errs.ErrInvalidResource, http.StatusBadRequest, "INVALID_RESOURCE"},
	{errs.ErrPastBooking, http.StatusConflict, "PAST_BOOKING"},
	{errs.ErrSlotConflict, http.StatusConflict, "SLOT_CONFLICT"},
	{errs.ErrResourceInUse, http.StatusConflict, "RESOURCE_IN_USE"},
	{errs.ErrIdempotencyKeyReused, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED"},
	{errs.ErrResourceNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
	{errs.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
	{errs.ErrNotOwner, http.StatusForbidden, "NOT_OWNER"},
	{errs.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
}

// Classify maps err onto its status, code and public message. Storage
// details never reach the client.
func Classify(err error) Outcome {
	for _, m := range engineStatuses {
		if errors.Is(err, m.target) {
			return Outcome{Status: m.status, Code: m.code, Message: m.target.Error()}
		}
	}
	if errors.Is(err, errs.ErrPersistence) {
		return Outcome{Status: http.StatusServiceUnavailable, Code: "UNAVAILABLE", Message: "Service temporarily unavailable"}
	}
	return Outcome{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "Internal server error"}
}
