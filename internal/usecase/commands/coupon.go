package commands

import (
	"context"

	"staybook/internal/domain/coupon"
	"staybook/internal/infra"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrCouponNotFound = errs.New("coupon not found")

// CouponQuote prices a coupon against an original total without consuming it.
// Consumption happens later, when the booking carrying the coupon commits.
type CouponQuote struct {
	CouponID        uuid.UUID
	Code            string
	DiscountCents   int64
	DiscountedCents int64
}

type CouponCommands interface {
	QuoteCoupon(ctx context.Context, userID uuid.UUID, code string, originalPriceCents int64) (*CouponQuote, error)
}

type couponUseCaseImpl struct {
	reads shared.CommandReads
	clock clock.Clock
}

func NewCouponUseCase(uow shared.UnitOfWork, clk clock.Clock) CouponCommands {
	return &couponUseCaseImpl{reads: uow.Reads(), clock: clk}
}

func (u *couponUseCaseImpl) QuoteCoupon(ctx context.Context, userID uuid.UUID, code string, originalPriceCents int64) (*CouponQuote, error) {
	normalized, err := coupon.NewCode(code)
	if err != nil {
		return nil, err
	}

	snap, err := u.reads.CouponByCodeForUser(ctx, normalized.String(), userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c, err := coupon.NewCoupon(
		snap.ID, snap.Code, snap.DiscountPercent, snap.MaxDiscountCents,
		snap.ExpiresAt, snap.IsActive, snap.AssignedUsers, snap.AppliedUsers,
	)
	if err != nil {
		return nil, errs.Wrap(err, "stored coupon failed domain validation")
	}

	if err := c.ValidateQuote(userID, u.clock.Now()); err != nil {
		return nil, err
	}

	discount, discounted := c.Quote(originalPriceCents)
	return &CouponQuote{
		CouponID:        snap.ID,
		Code:            snap.Code,
		DiscountCents:   discount,
		DiscountedCents: discounted,
	}, nil
}
