package readstore

import (
	"context"
	"encoding/json"
	"errors"

	"staybook/internal/domain/booking"
	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/usecase/queries"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// bookingViewColumns joins the enrichment data every booking view carries:
// hotel identity, the owner contact captured for the booking, and the hotel's
// policies aggregated as JSON so one round trip serves the whole view.
const bookingViewColumns = `
	b.id, b.reference, b.user_id, b.hotel_id, h.name, h.city,
	b.owner_id, o.phone, o.country_code,
	b.room, b.adults, b.children, b.check_in, b.check_out,
	b.guest_name, b.guest_phone, b.guest_country_code,
	b.total_price_cents, b.coupon_id, b.status,
	b.cancel_reason, b.cancelled_at, b.created_at, b.updated_at,
	COALESCE((
		SELECT json_agg(json_build_object('type', p.type, 'content', p.content) ORDER BY p.created_at)
		FROM hotel_policies p
		WHERE p.hotel_id = b.hotel_id
	), '[]')`

const bookingViewFrom = `
	FROM bookings b
	JOIN hotels h ON h.id = b.hotel_id
	JOIN users o ON o.id = b.owner_id`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

var _ queries.BookingReadStore = (*BookingReadStore)(nil)

func (s *BookingReadStore) FindByReference(ctx context.Context, reference string) (*queries.BookingView, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + ` WHERE b.reference = $1`

	view, err := scanBookingView(s.db.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return view, nil
}

func (s *BookingReadStore) FindByUser(ctx context.Context, userID uuid.UUID, statuses []booking.Status) ([]*queries.BookingView, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + ` WHERE b.user_id = $1`
	args := []any{userID}

	if len(statuses) > 0 {
		query += ` AND b.status = ANY($2)`
		statusStrings := make([]string, len(statuses))
		for i, st := range statuses {
			statusStrings[i] = string(st)
		}
		args = append(args, statusStrings)
	}
	query += ` ORDER BY b.created_at DESC`

	return s.queryBookingViews(ctx, query, args...)
}

func (s *BookingReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*queries.BookingView, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + ` WHERE b.owner_id = $1 ORDER BY b.created_at DESC`
	return s.queryBookingViews(ctx, query, ownerID)
}

func (s *BookingReadStore) FindSnapshotByReference(ctx context.Context, reference string) (*shared.BookingSnapshot, error) {
	const query = `
		SELECT id, reference, user_id, hotel_id, owner_id, room, status, check_in, check_out, coupon_id
		FROM bookings
		WHERE reference = $1`

	var snap shared.BookingSnapshot
	err := s.db.QueryRow(ctx, query, reference).Scan(
		&snap.ID, &snap.Reference, &snap.UserID, &snap.HotelID, &snap.OwnerID,
		&snap.Room, &snap.Status, &snap.CheckIn, &snap.CheckOut, &snap.CouponID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return &snap, nil
}

func (s *BookingReadStore) queryBookingViews(ctx context.Context, query string, args ...any) ([]*queries.BookingView, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var views []*queries.BookingView
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	return views, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var view queries.BookingView
	var policiesJSON []byte

	err := row.Scan(
		&view.ID, &view.Reference, &view.UserID, &view.HotelID, &view.HotelName, &view.HotelCity,
		&view.OwnerID, &view.OwnerPhone, &view.OwnerCountryCode,
		&view.Room, &view.Adults, &view.Children, &view.CheckIn, &view.CheckOut,
		&view.GuestName, &view.GuestPhone, &view.GuestCountryCode,
		&view.TotalPriceCents, &view.CouponID, &view.Status,
		&view.CancelReason, &view.CancelledAt, &view.CreatedAt, &view.UpdatedAt,
		&policiesJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(policiesJSON, &view.Policies); err != nil {
		return nil, err
	}
	return &view, nil
}
