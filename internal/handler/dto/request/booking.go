package request

import (
	"errors"
	"time"

	"staybook/internal/usecase/commands"

	"github.com/google/uuid"
)

var ErrInvalidDateFormat = errors.New("dates must be YYYY-MM-DD or RFC 3339")

type CreateBookingRequest struct {
	HotelID      uuid.UUID  `json:"hotelId" binding:"required"`
	CheckInDate  string     `json:"checkInDate" binding:"required"`
	CheckOutDate string     `json:"checkOutDate" binding:"required"`
	Room         int        `json:"room" binding:"required"`
	Adults       int        `json:"adults" binding:"required,min=1"`
	Children     int        `json:"children" binding:"min=0"`
	Name         string     `json:"name" binding:"required"`
	Number       string     `json:"number" binding:"required"`
	CountryCode  string     `json:"countryCode"`
	TotalPrice   *int64     `json:"totalPrice,omitempty"`
	CouponID     *uuid.UUID `json:"couponId,omitempty"`
}

func (r CreateBookingRequest) ToCommand() (commands.CreateBookingCommand, error) {
	checkIn, err := parseDate(r.CheckInDate)
	if err != nil {
		return commands.CreateBookingCommand{}, err
	}
	checkOut, err := parseDate(r.CheckOutDate)
	if err != nil {
		return commands.CreateBookingCommand{}, err
	}

	return commands.CreateBookingCommand{
		HotelID:          r.HotelID,
		Room:             r.Room,
		Adults:           r.Adults,
		Children:         r.Children,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		GuestName:        r.Name,
		GuestPhone:       r.Number,
		GuestCountryCode: r.CountryCode,
		TotalPriceCents:  r.TotalPrice,
		CouponID:         r.CouponID,
	}, nil
}

type UpdateBookingStatusRequest struct {
	BookingID     string `json:"bookingId" binding:"required"`
	BookingStatus string `json:"status" binding:"required"`
}

type CancelBookingRequest struct {
	BookingID    string `json:"bookingId" binding:"required"`
	CancelReason string `json:"reason" binding:"required"`
}

// parseDate accepts the plain calendar form first; full timestamps are
// tolerated and truncated to their date downstream.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDateFormat
}
