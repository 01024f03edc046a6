package reservation

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DateTimeLayout is the only accepted booking input format (yyyy-MM-dd HH:mm).
	DateTimeLayout = "2006-01-02 15:04"

	MinDurationHours = 1
	MaxDurationHours = 12
)

var (
	ErrInvalidDateTime    = errors.New("invalid date time, expected yyyy-MM-dd HH:mm")
	ErrDurationOutOfRange = errors.New("duration must be between 1 and 12 hours")
	ErrNotInFuture        = errors.New("start time must be in the future")
)

// Interval is the half-open range [start, start+hours).
type Interval struct {
	start time.Time
	hours int
}

// ParseStart parses text strictly in loc. Calendar overflow such as month 13
// or February 30 is an error, never a rollover, and so is a wall-clock time
// skipped by a daylight saving jump in loc.
func ParseStart(text string, loc *time.Location) (time.Time, error) {
	if !hasLayoutShape(text) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, text)
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateTimeLayout, text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, text)
	}
	// ParseInLocation normalizes a nonexistent local time by shifting it.
	if t.Format(DateTimeLayout) != text {
		return time.Time{}, fmt.Errorf("%w: %q does not exist in %s", ErrInvalidDateTime, text, loc)
	}
	return t, nil
}

func IsValidStart(text string) bool {
	_, err := ParseStart(text, time.UTC)
	return err == nil
}

// hasLayoutShape rejects input time.Parse tolerates: signs in the year,
// single-digit hours and surrounding whitespace.
func hasLayoutShape(text string) bool {
	if len(text) != len(DateTimeLayout) {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch i {
		case 4, 7:
			if c != '-' {
				return false
			}
		case 10:
			if c != ' ' {
				return false
			}
		case 13:
			if c != ':' {
				return false
			}
		default:
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

func NewInterval(start time.Time, hours int) (Interval, error) {
	if err := ValidateDuration(hours); err != nil {
		return Interval{}, err
	}
	return Interval{start: start, hours: hours}, nil
}

func ValidateDuration(hours int) error {
	if hours < MinDurationHours || hours > MaxDurationHours {
		return fmt.Errorf("%w: got %d", ErrDurationOutOfRange, hours)
	}
	return nil
}

// ValidateFuture fails when the interval starts at or before now.
func ValidateFuture(i Interval, now time.Time) error {
	if !i.start.After(now) {
		return ErrNotInFuture
	}
	return nil
}

// Overlaps reports half-open intersection; touching endpoints do not overlap.
func Overlaps(a, b Interval) bool {
	return a.start.Before(b.End()) && b.start.Before(a.End())
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i, other)
}

func (i Interval) Start() time.Time {
	return i.start
}

func (i Interval) End() time.Time {
	return i.start.Add(i.Duration())
}

func (i Interval) DurationHours() int {
	return i.hours
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.hours) * time.Hour
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.start.Format(DateTimeLayout), i.End().Format(DateTimeLayout))
}
