//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"staybook/internal/domain/coupon"
	"staybook/internal/pkg/clock"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponFixture(t *testing.T) (commands.CouponCommands, *fakeReads, uuid.UUID) {
	t.Helper()

	reads := newFakeReads()
	uow := &fakeUoW{tx: &fakeTx{
		bookings:      newFakeBookingRepo(),
		notifications: &fakeNotificationRepo{},
		reads:         reads,
	}}
	uc := commands.NewCouponUseCase(uow, clock.NewMockClock(testNow))
	return uc, reads, uuid.New()
}

func storedCoupon(code string, mutate ...func(*shared.CouponSnapshot)) *shared.CouponSnapshot {
	snap := &shared.CouponSnapshot{
		ID:               uuid.New(),
		Code:             code,
		DiscountPercent:  10,
		MaxDiscountCents: 0,
		ExpiresAt:        testNow.AddDate(0, 1, 0),
		IsActive:         true,
	}
	for _, m := range mutate {
		m(snap)
	}
	return snap
}

func TestQuoteCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("valid quote returns discount figures", func(t *testing.T) {
		uc, reads, userID := newCouponFixture(t)
		snap := storedCoupon("SAVE10")
		reads.coupons[snap.Code] = snap

		quote, err := uc.QuoteCoupon(ctx, userID, "save10", 500_00)
		require.NoError(t, err)
		assert.Equal(t, snap.ID, quote.CouponID)
		assert.Equal(t, int64(50_00), quote.DiscountCents)
		assert.Equal(t, int64(450_00), quote.DiscountedCents)
	})

	t.Run("discount honors the cap", func(t *testing.T) {
		uc, reads, userID := newCouponFixture(t)
		snap := storedCoupon("SAVE10", func(s *shared.CouponSnapshot) { s.MaxDiscountCents = 20_00 })
		reads.coupons[snap.Code] = snap

		quote, err := uc.QuoteCoupon(ctx, userID, "SAVE10", 500_00)
		require.NoError(t, err)
		assert.Equal(t, int64(20_00), quote.DiscountCents)
		assert.Equal(t, int64(480_00), quote.DiscountedCents)
	})

	t.Run("unknown code", func(t *testing.T) {
		uc, _, userID := newCouponFixture(t)

		_, err := uc.QuoteCoupon(ctx, userID, "NOPE123", 500_00)
		assert.ErrorIs(t, err, commands.ErrCouponNotFound)
	})

	t.Run("malformed code", func(t *testing.T) {
		uc, _, userID := newCouponFixture(t)

		_, err := uc.QuoteCoupon(ctx, userID, "a!", 500_00)
		assert.ErrorIs(t, err, coupon.ErrInvalidCouponCode)
	})

	t.Run("expired coupon", func(t *testing.T) {
		uc, reads, userID := newCouponFixture(t)
		snap := storedCoupon("SAVE10", func(s *shared.CouponSnapshot) {
			s.ExpiresAt = testNow.Add(-time.Hour)
		})
		reads.coupons[snap.Code] = snap

		_, err := uc.QuoteCoupon(ctx, userID, "SAVE10", 500_00)
		assert.ErrorIs(t, err, coupon.ErrCouponExpired)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		uc, reads, userID := newCouponFixture(t)
		snap := storedCoupon("SAVE10", func(s *shared.CouponSnapshot) { s.IsActive = false })
		reads.coupons[snap.Code] = snap

		_, err := uc.QuoteCoupon(ctx, userID, "SAVE10", 500_00)
		assert.ErrorIs(t, err, coupon.ErrCouponInactive)
	})

	t.Run("single use per user", func(t *testing.T) {
		uc, reads, userID := newCouponFixture(t)
		snap := storedCoupon("SAVE10", func(s *shared.CouponSnapshot) {
			s.AppliedUsers = []uuid.UUID{userID}
		})
		reads.coupons[snap.Code] = snap

		_, err := uc.QuoteCoupon(ctx, userID, "SAVE10", 500_00)
		assert.ErrorIs(t, err, coupon.ErrCouponAlreadyApplied)
	})

	t.Run("other users' applications do not block", func(t *testing.T) {
		uc, reads, userID := newCouponFixture(t)
		snap := storedCoupon("SAVE10", func(s *shared.CouponSnapshot) {
			s.AppliedUsers = []uuid.UUID{uuid.New(), uuid.New()}
		})
		reads.coupons[snap.Code] = snap

		_, err := uc.QuoteCoupon(ctx, userID, "SAVE10", 500_00)
		assert.NoError(t, err)
	})
}
