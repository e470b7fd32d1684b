//go:build unit

package booking_test

import (
	"math/rand"
	"testing"
	"time"

	"staybook/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, in, out time.Time) booking.StayDates {
	t.Helper()
	stay, err := booking.NewStayDates(in, out)
	require.NoError(t, err)
	return stay
}

func TestNewStayDates(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		stay, err := booking.NewStayDates(date(2026, 9, 1), date(2026, 9, 4))
		require.NoError(t, err)
		assert.Equal(t, 3, stay.Nights())
	})

	t.Run("check-out equal to check-in is rejected", func(t *testing.T) {
		_, err := booking.NewStayDates(date(2026, 9, 1), date(2026, 9, 1))
		assert.ErrorIs(t, err, booking.ErrInvalidStayDates)
	})

	t.Run("check-out before check-in is rejected", func(t *testing.T) {
		_, err := booking.NewStayDates(date(2026, 9, 4), date(2026, 9, 1))
		assert.ErrorIs(t, err, booking.ErrInvalidStayDates)
	})

	t.Run("time of day is discarded", func(t *testing.T) {
		in := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
		out := time.Date(2026, 9, 2, 0, 1, 0, 0, time.UTC)
		stay, err := booking.NewStayDates(in, out)
		require.NoError(t, err)
		assert.Equal(t, 1, stay.Nights())
		assert.Equal(t, date(2026, 9, 1), stay.CheckIn())
		assert.Equal(t, date(2026, 9, 2), stay.CheckOut())
	})
}

func TestStayDatesOverlaps(t *testing.T) {
	base := mustStay(t, date(2026, 9, 10), date(2026, 9, 15))

	cases := []struct {
		name    string
		in, out time.Time
		overlap bool
	}{
		{"identical range", date(2026, 9, 10), date(2026, 9, 15), true},
		{"fully inside", date(2026, 9, 11), date(2026, 9, 13), true},
		{"fully covering", date(2026, 9, 8), date(2026, 9, 20), true},
		{"overlapping head", date(2026, 9, 8), date(2026, 9, 11), true},
		{"overlapping tail", date(2026, 9, 14), date(2026, 9, 18), true},
		{"checkout day equals checkin day", date(2026, 9, 5), date(2026, 9, 10), false},
		{"checkin day equals checkout day", date(2026, 9, 15), date(2026, 9, 18), false},
		{"entirely before", date(2026, 9, 1), date(2026, 9, 5), false},
		{"entirely after", date(2026, 9, 20), date(2026, 9, 25), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other := mustStay(t, tc.in, tc.out)
			assert.Equal(t, tc.overlap, base.Overlaps(other))
			assert.Equal(t, tc.overlap, other.Overlaps(base))
		})
	}
}

func TestStayDatesOverlapsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	origin := date(2026, 1, 1)

	randomStay := func() booking.StayDates {
		start := rng.Intn(60)
		nights := 1 + rng.Intn(10)
		return mustStay(t, origin.AddDate(0, 0, start), origin.AddDate(0, 0, start+nights))
	}

	for i := 0; i < 1000; i++ {
		a := randomStay()
		b := randomStay()

		expected := a.CheckIn().Before(b.CheckOut()) && a.CheckOut().After(b.CheckIn())
		assert.Equal(t, expected, a.Overlaps(b), "a=%s b=%s", a, b)
		assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "overlap must be symmetric")
	}
}

func TestStayDatesValidateWindowAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	const months = 6

	cases := []struct {
		name    string
		in, out time.Time
		errIs   error
	}{
		{"check-in today", date(2026, 3, 15), date(2026, 3, 18), nil},
		{"check-in yesterday", date(2026, 3, 14), date(2026, 3, 18), booking.ErrCheckInInPast},
		{"check-in exactly on window boundary", date(2026, 9, 15), date(2026, 9, 18), nil},
		{"check-in one day past boundary", date(2026, 9, 16), date(2026, 9, 18), booking.ErrAdvanceWindow},
		{"check-in far beyond window", date(2027, 3, 15), date(2027, 3, 18), booking.ErrAdvanceWindow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stay := mustStay(t, tc.in, tc.out)
			err := stay.ValidateWindowAt(now, months)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewMoney(t *testing.T) {
	m, err := booking.NewMoney(12500)
	require.NoError(t, err)
	assert.Equal(t, int64(12500), m.Cents())

	_, err = booking.NewMoney(-1)
	assert.ErrorIs(t, err, booking.ErrNegativePrice)
}

func TestNewOccupancy(t *testing.T) {
	cases := []struct {
		name             string
		adults, children int
		errIs            error
	}{
		{"two adults one child", 2, 1, nil},
		{"single adult no children", 1, 0, nil},
		{"zero adults", 0, 1, booking.ErrNoAdults},
		{"negative children", 1, -1, booking.ErrNegativeChildren},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			occ, err := booking.NewOccupancy(tc.adults, tc.children)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.adults, occ.Adults())
			assert.Equal(t, tc.children, occ.Children())
		})
	}
}

func TestNightlyRateCalculator(t *testing.T) {
	calc := booking.NewNightlyRateCalculator()
	stay := mustStay(t, date(2026, 9, 1), date(2026, 9, 4))

	assert.Equal(t, int64(300_00), calc.TotalCents(100_00, stay))
}
