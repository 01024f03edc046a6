package errs

import "errors"

// Booking engine outcomes shared by the command and query sides.
// Every failure returned by the engine is marked with exactly one of these.
var (
	// Input errors
	ErrParse    = errors.New("invalid booking start, expected yyyy-MM-dd HH:mm")
	ErrDuration = errors.New("booking duration must be between 1 and 12 hours")

	// Temporal errors
	ErrPastBooking = errors.New("booking start is not in the future")

	// Lookup errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrBookingNotFound  = errors.New("booking not found")

	// Authorization errors
	ErrNotOwner  = errors.New("booking belongs to another actor")
	ErrForbidden = errors.New("operation requires administrator role")

	// Consistency errors
	ErrSlotConflict  = errors.New("resource is already booked for the selected time slot")
	ErrResourceInUse = errors.New("resource still has bookings")

	// A client reused an idempotency key for a different booking request
	ErrIdempotencyKeyReused = errors.New("idempotency key was already used for a different booking request")

	// Resource administration
	ErrInvalidResource = errors.New("invalid resource")

	// Storage errors, including timeouts
	ErrPersistence = errors.New("persistence failure")
)
