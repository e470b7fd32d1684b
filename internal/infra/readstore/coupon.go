package readstore

import (
	"context"
	"errors"
	"time"

	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/usecase/queries"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const couponSnapshotColumns = `
	id, code, discount_percent, max_discount_cents, expires_at, is_active,
	assigned_users, applied_users`

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

var _ queries.CouponReadStore = (*CouponReadStore)(nil)

func (s *CouponReadStore) FindRedeemableByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*queries.CouponView, error) {
	const query = `
		SELECT id, code, discount_percent, max_discount_cents, expires_at
		FROM coupons
		WHERE is_active
		  AND expires_at > $2
		  AND (cardinality(assigned_users) = 0 OR $1 = ANY(assigned_users))
		  AND NOT ($1 = ANY(applied_users))
		ORDER BY expires_at`

	rows, err := s.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var views []*queries.CouponView
	for rows.Next() {
		var v queries.CouponView
		if err := rows.Scan(&v.ID, &v.Code, &v.DiscountPercent, &v.MaxDiscountCents, &v.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	return views, nil
}

func (s *CouponReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.CouponSnapshot, error) {
	query := `SELECT` + couponSnapshotColumns + ` FROM coupons WHERE id = $1`
	return s.scanSnapshot(s.db.QueryRow(ctx, query, id))
}

// FindSnapshotByCodeForUser resolves a code for a quoting user. A coupon
// assigned to other users is invisible here, so the caller sees the same
// not-found as for a code that does not exist.
func (s *CouponReadStore) FindSnapshotByCodeForUser(ctx context.Context, code string, userID uuid.UUID) (*shared.CouponSnapshot, error) {
	query := `
		SELECT` + couponSnapshotColumns + `
		FROM coupons
		WHERE code = $1
		  AND (cardinality(assigned_users) = 0 OR $2 = ANY(assigned_users))`
	return s.scanSnapshot(s.db.QueryRow(ctx, query, code, userID))
}

func (s *CouponReadStore) scanSnapshot(row pgx.Row) (*shared.CouponSnapshot, error) {
	var snap shared.CouponSnapshot
	err := row.Scan(
		&snap.ID, &snap.Code, &snap.DiscountPercent, &snap.MaxDiscountCents,
		&snap.ExpiresAt, &snap.IsActive, &snap.AssignedUsers, &snap.AppliedUsers,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}
	return &snap, nil
}
