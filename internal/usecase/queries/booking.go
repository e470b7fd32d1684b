package queries

import (
	"context"
	"time"

	"staybook/internal/domain/booking"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type PolicyView struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type BookingView struct {
	ID               uuid.UUID    `json:"id"`
	Reference        string       `json:"bookingId"`
	UserID           uuid.UUID    `json:"userId"`
	HotelID          uuid.UUID    `json:"hotelId"`
	HotelName        string       `json:"hotelName"`
	HotelCity        string       `json:"hotelCity"`
	OwnerID          uuid.UUID    `json:"ownerId"`
	OwnerPhone       string       `json:"ownerPhone"`
	OwnerCountryCode string       `json:"ownerCountryCode"`
	Room             int          `json:"room"`
	Adults           int          `json:"adults"`
	Children         int          `json:"children"`
	CheckIn          time.Time    `json:"checkInDate"`
	CheckOut         time.Time    `json:"checkOutDate"`
	GuestName        string       `json:"name"`
	GuestPhone       string       `json:"number"`
	GuestCountryCode string       `json:"countryCode"`
	TotalPriceCents  int64        `json:"totalPrice"`
	CouponID         *uuid.UUID   `json:"couponId,omitempty"`
	Status           string       `json:"status"`
	CancelReason     *string      `json:"cancelReason,omitempty"`
	CancelledAt      *time.Time   `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	Policies         []PolicyView `json:"policies,omitempty"`
}

type BookingQueries interface {
	GetByReference(ctx context.Context, reference string) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *booking.Status) ([]*BookingView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*BookingView, error)
}

type BookingReadStore interface {
	FindByReference(ctx context.Context, reference string) (*BookingView, error)
	FindByUser(ctx context.Context, userID uuid.UUID, statuses []booking.Status) ([]*BookingView, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*BookingView, error)
}

// ExpandStatusFilter maps an API status filter onto the set of stored
// statuses it covers. A guest's "upcoming" trips include bookings still
// pending: both are stays that have not happened yet, and clients rely on
// seeing them together. Nil means no filter.
func ExpandStatusFilter(status *booking.Status) []booking.Status {
	if status == nil {
		return nil
	}
	if *status == booking.StatusUpcoming {
		return []booking.Status{booking.StatusUpcoming, booking.StatusPending}
	}
	return []booking.Status{*status}
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByReference(ctx context.Context, reference string) (*BookingView, error) {
	return q.store.FindByReference(ctx, reference)
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, status *booking.Status) ([]*BookingView, error) {
	return q.store.FindByUser(ctx, userID, ExpandStatusFilter(status))
}

func (q *bookingQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*BookingView, error) {
	return q.store.FindByOwner(ctx, ownerID)
}
