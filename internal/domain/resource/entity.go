package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName       = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong     = errors.New("resource name is too long (max 100 characters)")
	ErrEmptyLocation           = errors.New("resource location cannot be empty")
	ErrLocationTooLong         = errors.New("resource location is too long (max 200 characters)")
	ErrNonPositiveHourlyRate   = errors.New("hourly rate must be positive")
	ErrHourlyRateAboveCeiling  = errors.New("hourly rate exceeds 99999999.99")
	ErrMissingResourceIdentity = errors.New("resource id cannot be empty")
)

const (
	MaxResourceNameLength = 100
	MaxLocationLength     = 200
	// Matches a DECIMAL(10,2) column.
	MaxHourlyRateCents int64 = 9_999_999_999
)

// Resource is a rentable turf. The hourly rate is held in cents.
type Resource struct {
	id              uuid.UUID
	name            string
	location        string
	hourlyRateCents int64
	createdAt       time.Time
	updatedAt       time.Time
}

func NewResource(id uuid.UUID, name, location string, hourlyRateCents int64) (*Resource, error) {
	if id == uuid.Nil {
		return nil, ErrMissingResourceIdentity
	}
	r := &Resource{id: id}
	if err := r.apply(name, location, hourlyRateCents); err != nil {
		return nil, err
	}
	return r, nil
}

func ReconstructResource(id uuid.UUID, name, location string, hourlyRateCents int64, createdAt, updatedAt time.Time) *Resource {
	return &Resource{
		id:              id,
		name:            name,
		location:        location,
		hourlyRateCents: hourlyRateCents,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Update replaces the mutable attributes. Existing reservations keep the
// cost computed at booking time.
func (r *Resource) Update(name, location string, hourlyRateCents int64, now time.Time) error {
	if err := r.apply(name, location, hourlyRateCents); err != nil {
		return err
	}
	r.updatedAt = now
	return nil
}

func (r *Resource) apply(name, location string, hourlyRateCents int64) error {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)

	if err := validateResourceName(name); err != nil {
		return err
	}
	if err := validateLocation(location); err != nil {
		return err
	}
	if err := validateHourlyRate(hourlyRateCents); err != nil {
		return err
	}

	r.name = name
	r.location = location
	r.hourlyRateCents = hourlyRateCents
	return nil
}

func validateResourceName(name string) error {
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func validateLocation(location string) error {
	if location == "" {
		return ErrEmptyLocation
	}
	if len(location) > MaxLocationLength {
		return ErrLocationTooLong
	}
	return nil
}

func validateHourlyRate(cents int64) error {
	if cents <= 0 {
		return ErrNonPositiveHourlyRate
	}
	if cents > MaxHourlyRateCents {
		return ErrHourlyRateAboveCeiling
	}
	return nil
}

func (r *Resource) ID() uuid.UUID          { return r.id }
func (r *Resource) Name() string           { return r.name }
func (r *Resource) Location() string       { return r.location }
func (r *Resource) HourlyRateCents() int64 { return r.hourlyRateCents }
func (r *Resource) CreatedAt() time.Time   { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time   { return r.updatedAt }
