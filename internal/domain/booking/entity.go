package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
	ErrCancelReasonRequired = errors.New("cancellation reason is required")
)

type Booking struct {
	id           uuid.UUID
	reference    Reference
	userID       uuid.UUID
	hotelID      uuid.UUID
	ownerID      uuid.UUID
	room         int
	occupancy    Occupancy
	stay         StayDates
	contact      GuestContact
	price        Money
	couponID     *uuid.UUID
	status       Status
	cancelReason *string
	cancelledAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewBooking assembles a pending booking from already-validated value
// objects. The owner is the hotel's owner at this moment and is stored on the
// booking itself, so later ownership transfers leave history intact.
func NewBooking(
	reference Reference,
	userID, hotelID, ownerID uuid.UUID,
	room int,
	occupancy Occupancy,
	stay StayDates,
	contact GuestContact,
	price Money,
	couponID *uuid.UUID,
) *Booking {
	return &Booking{
		id:        uuid.New(),
		reference: reference,
		userID:    userID,
		hotelID:   hotelID,
		ownerID:   ownerID,
		room:      room,
		occupancy: occupancy,
		stay:      stay,
		contact:   contact.normalized(),
		price:     price,
		couponID:  couponID,
		status:    StatusPending,
	}
}

func ReconstructBooking(
	id uuid.UUID,
	reference Reference,
	userID, hotelID, ownerID uuid.UUID,
	room int,
	occupancy Occupancy,
	stay StayDates,
	contact GuestContact,
	price Money,
	couponID *uuid.UUID,
	status Status,
	cancelReason *string,
	cancelledAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		reference:    reference,
		userID:       userID,
		hotelID:      hotelID,
		ownerID:      ownerID,
		room:         room,
		occupancy:    occupancy,
		stay:         stay,
		contact:      contact,
		price:        price,
		couponID:     couponID,
		status:       status,
		cancelReason: cancelReason,
		cancelledAt:  cancelledAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// TransitionTo applies a generic status update. Enum membership and the
// transition table are the only guards here; cancellation with its reason and
// timestamp goes through Cancel instead.
func (b *Booking) TransitionTo(next Status) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if !b.status.CanTransitionTo(next) {
		return ErrTransitionNotAllowed
	}
	b.status = next
	return nil
}

// Cancel is one-way: a cancelled booking stays cancelled, and its reason and
// timestamp are written exactly once.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancelReasonRequired
	}
	b.status = StatusCancelled
	b.cancelReason = &reason
	b.cancelledAt = &now
	return nil
}

func (b *Booking) IsCancelled() bool {
	return b.status == StatusCancelled
}

// BlocksRoom reports whether this booking still occupies its room-nights for
// the overlap invariant. Cancelled bookings free their slot.
func (b *Booking) BlocksRoom() bool {
	return b.status != StatusCancelled
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) Reference() Reference   { return b.reference }
func (b *Booking) UserID() uuid.UUID      { return b.userID }
func (b *Booking) HotelID() uuid.UUID     { return b.hotelID }
func (b *Booking) OwnerID() uuid.UUID     { return b.ownerID }
func (b *Booking) Room() int              { return b.room }
func (b *Booking) Occupancy() Occupancy   { return b.occupancy }
func (b *Booking) Stay() StayDates        { return b.stay }
func (b *Booking) Contact() GuestContact  { return b.contact }
func (b *Booking) Price() Money           { return b.price }
func (b *Booking) CouponID() *uuid.UUID   { return b.couponID }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) CancelReason() *string  { return b.cancelReason }
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }
