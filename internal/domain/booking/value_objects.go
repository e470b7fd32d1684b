package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStayDates    = errors.New("check-out date must be after check-in date")
	ErrCheckInInPast       = errors.New("check-in date cannot be in the past")
	ErrAdvanceWindow       = errors.New("check-in date exceeds the advance-booking window")
	ErrNegativePrice       = errors.New("price cannot be negative")
	ErrNoAdults            = errors.New("at least one adult is required")
	ErrNegativeChildren    = errors.New("children count cannot be negative")
)

// StayDates is a half-open [checkIn, checkOut) range of civil dates. Times of
// day are discarded so that overlap and window arithmetic never depend on the
// clock component of the inputs.
type StayDates struct {
	checkIn  time.Time
	checkOut time.Time
}

func toCivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func NewStayDates(checkIn, checkOut time.Time) (StayDates, error) {
	in := toCivilDate(checkIn)
	out := toCivilDate(checkOut)
	if !out.After(in) {
		return StayDates{}, ErrInvalidStayDates
	}
	return StayDates{checkIn: in, checkOut: out}, nil
}

func (s StayDates) CheckIn() time.Time {
	return s.checkIn
}

func (s StayDates) CheckOut() time.Time {
	return s.checkOut
}

// Overlaps reports whether two half-open ranges intersect:
// a.in < b.out && a.out > b.in.
func (s StayDates) Overlaps(other StayDates) bool {
	return s.checkIn.Before(other.checkOut) && s.checkOut.After(other.checkIn)
}

func (s StayDates) Nights() int {
	return int(s.checkOut.Sub(s.checkIn).Hours() / 24)
}

// ValidateWindowAt enforces both ends of the bookable window as of "now":
// check-in must not be in the past, and must not be later than
// today + months calendar months. The boundary day itself is bookable.
func (s StayDates) ValidateWindowAt(now time.Time, months int) error {
	today := toCivilDate(now)
	if s.checkIn.Before(today) {
		return ErrCheckInInPast
	}
	if s.checkIn.After(today.AddDate(0, months, 0)) {
		return ErrAdvanceWindow
	}
	return nil
}

func (s StayDates) String() string {
	return fmt.Sprintf("[%s,%s)", s.checkIn.Format("2006-01-02"), s.checkOut.Format("2006-01-02"))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

// Occupancy is the guest headcount for a stay.
type Occupancy struct {
	adults   int
	children int
}

func NewOccupancy(adults, children int) (Occupancy, error) {
	if adults < 1 {
		return Occupancy{}, ErrNoAdults
	}
	if children < 0 {
		return Occupancy{}, ErrNegativeChildren
	}
	return Occupancy{adults: adults, children: children}, nil
}

func (o Occupancy) Adults() int   { return o.adults }
func (o Occupancy) Children() int { return o.children }

// GuestContact is snapshotted onto the booking at creation time for
// confirmation messaging; later profile edits do not touch it.
type GuestContact struct {
	Name        string
	Phone       string
	CountryCode string
}

func (g GuestContact) normalized() GuestContact {
	return GuestContact{
		Name:        strings.TrimSpace(g.Name),
		Phone:       strings.TrimSpace(g.Phone),
		CountryCode: strings.TrimSpace(g.CountryCode),
	}
}
