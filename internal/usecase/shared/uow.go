package shared

import (
	"context"
	"time"

	"staybook/internal/domain/booking"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: read-committed transaction with retry for write operations
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: command-side reads outside any transaction
	Reads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

type CommandReads interface {
	HotelByID(ctx context.Context, id uuid.UUID) (*HotelSnapshot, error)
	CouponByID(ctx context.Context, id uuid.UUID) (*CouponSnapshot, error)
	CouponByCodeForUser(ctx context.Context, code string, userID uuid.UUID) (*CouponSnapshot, error)
	BookingByReference(ctx context.Context, reference string) (*BookingSnapshot, error)
}

type BookingRepository interface {
	// LockRoom serializes all writers for one (hotel, room) pair until the
	// surrounding transaction ends, making conflict-check + insert atomic.
	LockRoom(ctx context.Context, hotelID uuid.UUID, room int) error
	HasOverlap(ctx context.Context, hotelID uuid.UUID, room int, stay booking.StayDates) (bool, error)
	ReferenceExists(ctx context.Context, reference booking.Reference) (bool, error)
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
	MarkCancelled(ctx context.Context, id uuid.UUID, reason string, at time.Time) error
}

// CouponMarker appends a user to a coupon's applied set. It runs outside the
// booking transaction: marking failures must never roll back a booking.
type CouponMarker interface {
	MarkApplied(ctx context.Context, couponID, userID uuid.UUID) (bool, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
