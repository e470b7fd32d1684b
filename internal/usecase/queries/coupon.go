package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CouponView struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	DiscountPercent  float64   `json:"discountPercentage"`
	MaxDiscountCents int64     `json:"maxDiscount"`
	ExpiresAt        time.Time `json:"expiryDate"`
}

type CouponQueries interface {
	// ListForUser returns the coupons a user can still redeem: active,
	// unexpired, either public or assigned to the user, and not yet applied
	// by them.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*CouponView, error)
}

type CouponReadStore interface {
	FindRedeemableByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	store CouponReadStore
	now   func() time.Time
}

func NewCouponQueries(store CouponReadStore) CouponQueries {
	return &couponQueriesImpl{store: store, now: time.Now}
}

func (q *couponQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*CouponView, error) {
	return q.store.FindRedeemableByUser(ctx, userID, q.now())
}
