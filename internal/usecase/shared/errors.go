package shared

import (
	"errors"

	"turf-booking/internal/infra"
	"turf-booking/internal/pkg/errs"
)

var engineErrors = []error{
	errs.ErrParse,
	errs.ErrDuration,
	errs.ErrPastBooking,
	errs.ErrResourceNotFound,
	errs.ErrBookingNotFound,
	errs.ErrNotOwner,
	errs.ErrForbidden,
	errs.ErrSlotConflict,
	errs.ErrResourceInUse,
	errs.ErrIdempotencyKeyReused,
	errs.ErrInvalidResource,
	errs.ErrPersistence,
}

// IsEngineError reports whether err already carries one of the outcome sentinels.
func IsEngineError(err error) bool {
	for _, target := range engineErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// TranslateStoreErr maps a store failure onto the engine taxonomy. notFound
// is the sentinel for a missing row in the caller's context.
func TranslateStoreErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case IsEngineError(err):
		return err
	case infra.IsKind(err, infra.KindNotFound) && notFound != nil:
		return errs.Mark(err, notFound)
	case infra.IsKind(err, infra.KindExclusionViolated):
		return errs.Mark(err, errs.ErrSlotConflict)
	default:
		return errs.Mark(err, errs.ErrPersistence)
	}
}

// Reason is a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrParse):
		return "parse"
	case errors.Is(err, errs.ErrDuration):
		return "duration"
	case errors.Is(err, errs.ErrPastBooking):
		return "past_booking"
	case errors.Is(err, errs.ErrResourceNotFound):
		return "resource_not_found"
	case errors.Is(err, errs.ErrBookingNotFound):
		return "booking_not_found"
	case errors.Is(err, errs.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, errs.ErrForbidden):
		return "forbidden"
	case errors.Is(err, errs.ErrSlotConflict):
		return "slot_conflict"
	case errors.Is(err, errs.ErrResourceInUse):
		return "resource_in_use"
	case errors.Is(err, errs.ErrIdempotencyKeyReused):
		return "idempotency_key_reused"
	case errors.Is(err, errs.ErrInvalidResource):
		return "invalid_resource"
	case errors.Is(err, errs.ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}
