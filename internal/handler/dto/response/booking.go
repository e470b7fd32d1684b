package response

import (
	"staybook/internal/usecase/queries"
)

// Success envelopes mirror the error envelope: status true plus a message,
// then the payload under a named key.

type BookingResponse struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Booking *queries.BookingView `json:"booking"`
}

type BookingListResponse struct {
	Status   bool                   `json:"status"`
	Message  string                 `json:"message"`
	Bookings []*queries.BookingView `json:"bookings"`
}

func FromBookingView(msg string, view *queries.BookingView) *BookingResponse {
	return &BookingResponse{Status: true, Message: msg, Booking: view}
}

func FromBookingViews(msg string, views []*queries.BookingView) *BookingListResponse {
	return &BookingListResponse{Status: true, Message: msg, Bookings: views}
}
