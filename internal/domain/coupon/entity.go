package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrCouponInactive       = errors.New("coupon is not active")
	ErrCouponAlreadyApplied = errors.New("coupon already applied by this user")
)

// Coupon is a percentage discount with an expiry, an optional cap, and two
// user sets: assigned_users scopes who the coupon was issued to (empty means
// public), applied_users records who has consumed it. A user appears in the
// applied set at most once and can never re-apply.
type Coupon struct {
	id              uuid.UUID
	code            Code
	discountPercent float64
	maxDiscountCents int64
	expiresAt       time.Time
	isActive        bool
	assignedUsers   []uuid.UUID
	appliedUsers    []uuid.UUID
}

func NewCoupon(
	id uuid.UUID,
	code string,
	discountPercent float64,
	maxDiscountCents int64,
	expiresAt time.Time,
	isActive bool,
	assignedUsers, appliedUsers []uuid.UUID,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	if err := validatePercent(discountPercent); err != nil {
		return nil, err
	}

	return &Coupon{
		id:              id,
		code:            couponCode,
		discountPercent: discountPercent,
		maxDiscountCents: maxDiscountCents,
		expiresAt:       expiresAt,
		isActive:        isActive,
		assignedUsers:   assignedUsers,
		appliedUsers:    appliedUsers,
	}, nil
}

func (c *Coupon) IsExpiredAt(t time.Time) bool {
	return t.After(c.expiresAt)
}

func (c *Coupon) IsAssignedTo(userID uuid.UUID) bool {
	return containsUser(c.assignedUsers, userID)
}

func (c *Coupon) IsPublic() bool {
	return len(c.assignedUsers) == 0
}

func (c *Coupon) IsAppliedBy(userID uuid.UUID) bool {
	return containsUser(c.appliedUsers, userID)
}

// ValidateQuote checks whether userID may quote this coupon at time t. It
// does not consume anything; consumption happens only through a successful
// booking.
func (c *Coupon) ValidateQuote(userID uuid.UUID, t time.Time) error {
	if !c.isActive {
		return ErrCouponInactive
	}
	if c.IsExpiredAt(t) {
		return ErrCouponExpired
	}
	if c.IsAppliedBy(userID) {
		return ErrCouponAlreadyApplied
	}
	return nil
}

// Quote computes the discount for an original price in cents. The discount
// is capped at maxDiscountCents when a cap is configured.
func (c *Coupon) Quote(originalCents int64) (discountCents, discountedCents int64) {
	discountCents = int64(float64(originalCents) * c.discountPercent / 100.0)
	if c.maxDiscountCents > 0 && discountCents > c.maxDiscountCents {
		discountCents = c.maxDiscountCents
	}
	if discountCents > originalCents {
		discountCents = originalCents
	}
	return discountCents, originalCents - discountCents
}

func (c *Coupon) ID() uuid.UUID          { return c.id }
func (c *Coupon) Code() Code             { return c.code }
func (c *Coupon) DiscountPercent() float64 { return c.discountPercent }
func (c *Coupon) MaxDiscountCents() int64  { return c.maxDiscountCents }
func (c *Coupon) ExpiresAt() time.Time   { return c.expiresAt }
func (c *Coupon) IsActive() bool         { return c.isActive }

func containsUser(users []uuid.UUID, userID uuid.UUID) bool {
	for _, u := range users {
		if u == userID {
			return true
		}
	}
	return false
}
