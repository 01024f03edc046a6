//go:build unit

package reservation_test

import (
	"math/rand"
	"testing"
	"time"

	"turf-booking/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start string, hours int) reservation.Interval {
	t.Helper()
	s, err := reservation.ParseStart(start, time.UTC)
	require.NoError(t, err)
	i, err := reservation.NewInterval(s, hours)
	require.NoError(t, err)
	return i
}

func TestParseStart(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		got, err := reservation.ParseStart("2025-07-15 14:30", time.UTC)
		require.NoError(t, err)
		assert.True(t, got.Equal(time.Date(2025, 7, 15, 14, 30, 0, 0, time.UTC)))
	})

	t.Run("タイムゾーン指定", func(t *testing.T) {
		ist := time.FixedZone("IST", 5*60*60+30*60)
		got, err := reservation.ParseStart("2025-07-15 14:30", ist)
		require.NoError(t, err)
		assert.True(t, got.Equal(time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)))
	})

	t.Run("daylight saving gap is rejected", func(t *testing.T) {
		berlin, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		_, err = reservation.ParseStart("2025-03-30 02:30", berlin)
		require.ErrorIs(t, err, reservation.ErrInvalidDateTime)

		got, err := reservation.ParseStart("2025-03-30 03:30", berlin)
		require.NoError(t, err)
		assert.True(t, got.Equal(time.Date(2025, 3, 30, 1, 30, 0, 0, time.UTC)))
	})

	t.Run("daylight saving overlap keeps the wall clock", func(t *testing.T) {
		berlin, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		got, err := reservation.ParseStart("2025-10-26 02:30", berlin)
		require.NoError(t, err)
		assert.Equal(t, "2025-10-26 02:30", got.Format(reservation.DateTimeLayout))
	})

	t.Run("うるう年OK", func(t *testing.T) {
		assert.True(t, reservation.IsValidStart("2024-02-29 08:00"))
	})

	invalid := []struct {
		name  string
		input string
	}{
		{name: "month 13", input: "2025-13-01 10:00"},
		{name: "february 30", input: "2025-02-30 10:00"},
		{name: "february 29 in a common year", input: "2025-02-29 10:00"},
		{name: "day 32", input: "2025-01-32 10:00"},
		{name: "hour 24", input: "2025-07-15 24:00"},
		{name: "minute 60", input: "2025-07-15 10:60"},
		{name: "slashes", input: "2025/07/15 10:00"},
		{name: "iso separator", input: "2025-07-15T10:00"},
		{name: "single digit month", input: "2025-7-15 10:00"},
		{name: "single digit hour", input: "2025-07-15 9:30"},
		{name: "leading space", input: " 2025-07-15 10:00"},
		{name: "signed year", input: "+025-07-15 10:00"},
		{name: "seconds", input: "2025-07-15 10:00:00"},
		{name: "empty", input: ""},
		{name: "letters", input: "abcd-ef-gh ij:kl"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reservation.ParseStart(tc.input, time.UTC)
			require.ErrorIs(t, err, reservation.ErrInvalidDateTime)
			assert.False(t, reservation.IsValidStart(tc.input))
		})
	}
}

func TestValidateDuration(t *testing.T) {
	cases := []struct {
		hours int
		ok    bool
	}{
		{hours: -1, ok: false},
		{hours: 0, ok: false},
		{hours: 1, ok: true},
		{hours: 6, ok: true},
		{hours: 12, ok: true},
		{hours: 13, ok: false},
	}
	for _, c := range cases {
		err := reservation.ValidateDuration(c.hours)
		if c.ok {
			assert.NoError(t, err, "hours=%d", c.hours)
		} else {
			assert.ErrorIs(t, err, reservation.ErrDurationOutOfRange, "hours=%d", c.hours)
		}
	}

	_, err := reservation.NewInterval(time.Now(), 13)
	require.ErrorIs(t, err, reservation.ErrDurationOutOfRange)
}

func TestValidateFuture(t *testing.T) {
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	t.Run("未来OK", func(t *testing.T) {
		i, err := reservation.NewInterval(now.Add(time.Minute), 1)
		require.NoError(t, err)
		assert.NoError(t, reservation.ValidateFuture(i, now))
	})

	t.Run("現在時刻NG", func(t *testing.T) {
		i, err := reservation.NewInterval(now, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, reservation.ValidateFuture(i, now), reservation.ErrNotInFuture)
	})

	t.Run("過去NG", func(t *testing.T) {
		i, err := reservation.NewInterval(now.Add(-time.Hour), 12)
		require.NoError(t, err)
		assert.ErrorIs(t, reservation.ValidateFuture(i, now), reservation.ErrNotInFuture)
	})
}

func TestInterval(t *testing.T) {
	i := mustInterval(t, "2025-07-15 22:00", 3)

	assert.True(t, i.End().Equal(time.Date(2025, 7, 16, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, i.DurationHours())
	assert.Equal(t, 3*time.Hour, i.Duration())
	assert.Equal(t, "[2025-07-15 22:00, 2025-07-16 01:00)", i.String())
}

func TestOverlaps(t *testing.T) {
	existing := mustInterval(t, "2025-07-15 10:00", 2)

	cases := []struct {
		name      string
		candidate reservation.Interval
		want      bool
	}{
		{name: "adjacent after", candidate: mustInterval(t, "2025-07-15 12:00", 1), want: false},
		{name: "adjacent before", candidate: mustInterval(t, "2025-07-15 08:00", 2), want: false},
		{name: "starts inside", candidate: mustInterval(t, "2025-07-15 11:00", 1), want: true},
		{name: "ends inside", candidate: mustInterval(t, "2025-07-15 09:00", 2), want: true},
		{name: "contains", candidate: mustInterval(t, "2025-07-15 09:00", 4), want: true},
		{name: "contained", candidate: mustInterval(t, "2025-07-15 10:30", 1), want: true},
		{name: "identical", candidate: mustInterval(t, "2025-07-15 10:00", 2), want: true},
		{name: "other day", candidate: mustInterval(t, "2025-07-16 10:00", 2), want: false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, reservation.Overlaps(existing, c.candidate))
			assert.Equal(t, c.want, c.candidate.Overlaps(existing))
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(20250715))
	base := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	for n := 0; n < 5000; n++ {
		a, err := reservation.NewInterval(base.Add(time.Duration(rng.Intn(96))*30*time.Minute), 1+rng.Intn(12))
		require.NoError(t, err)
		b, err := reservation.NewInterval(base.Add(time.Duration(rng.Intn(96))*30*time.Minute), 1+rng.Intn(12))
		require.NoError(t, err)

		require.Equal(t, reservation.Overlaps(a, b), reservation.Overlaps(b, a), "a=%s b=%s", a, b)
	}
}
