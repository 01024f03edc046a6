package reservation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidMoney = errors.New("invalid money amount, expected up to 2 decimal places")

// Largest whole-unit part whose cent value still fits in an int64.
const maxUnits = (math.MaxInt64 - 99) / 100

// Money is an exact amount in cents. Hourly rates and totals never need
// more than two decimals, so integer arithmetic keeps cost computation exact.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

// ParseMoney accepts "50", "50.5" and "83.33". Signs, exponents and a third
// decimal are rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidMoney
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || !allDigits(whole) {
		return Money{}, ErrInvalidMoney
	}
	if hasFrac && (frac == "" || len(frac) > 2 || !allDigits(frac)) {
		return Money{}, ErrInvalidMoney
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxUnits {
		return Money{}, ErrInvalidMoney
	}
	for len(frac) < 2 {
		frac += "0"
	}
	fracCents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidMoney
	}

	return Money{cents: units*100 + fracCents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsPositive() bool {
	return m.cents > 0
}

func (m Money) Mul(n int64) Money {
	return Money{cents: m.cents * n}
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	sign := ""
	c := m.cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
