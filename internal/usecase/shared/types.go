package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep commands off the read-model types (CQRS separation).

type HotelSnapshot struct {
	ID                 uuid.UUID
	Name               string
	PricePerNightCents int64
	Rooms              int
	IsAvailable        bool
	OwnerID            uuid.UUID
}

type CouponSnapshot struct {
	ID               uuid.UUID
	Code             string
	DiscountPercent  float64
	MaxDiscountCents int64
	ExpiresAt        time.Time
	IsActive         bool
	AssignedUsers    []uuid.UUID
	AppliedUsers     []uuid.UUID
}

// BookingSnapshot is the minimal state the status and cancel paths need.
type BookingSnapshot struct {
	ID        uuid.UUID
	Reference string
	UserID    uuid.UUID
	HotelID   uuid.UUID
	OwnerID   uuid.UUID
	Room      int
	Status    string
	CheckIn   time.Time
	CheckOut  time.Time
	CouponID  *uuid.UUID
}
