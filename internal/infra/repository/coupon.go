package repository

import (
	"context"

	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(dbtx db.DBTX) *CouponRepository {
	return &CouponRepository{db: dbtx}
}

var _ shared.CouponMarker = (*CouponRepository)(nil)

// MarkApplied appends the user to applied_users. The WHERE clause makes the
// append idempotent under concurrent requests: only one writer observes the
// user as absent, so the same user can never appear twice.
func (r *CouponRepository) MarkApplied(ctx context.Context, couponID, userID uuid.UUID) (bool, error) {
	const query = `
		UPDATE coupons
		SET applied_users = array_append(applied_users, $2), updated_at = now()
		WHERE id = $1
		  AND NOT ($2 = ANY(applied_users))`

	tag, err := r.db.Exec(ctx, query, couponID, userID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark coupon applied", err)
	}
	return tag.RowsAffected() > 0, nil
}
