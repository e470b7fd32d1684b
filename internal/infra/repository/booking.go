package repository

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/infra"
	"staybook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

// LockRoom takes a transaction-scoped advisory lock keyed on the (hotel, room)
// pair. Every writer for that room must pass through here before checking for
// overlaps, which closes the gap between the check and the insert.
func (r *BookingRepository) LockRoom(ctx context.Context, hotelID uuid.UUID, room int) error {
	const query = `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`

	if _, err := r.db.Exec(ctx, query, hotelID, room); err != nil {
		return infra.WrapRepoErr("failed to lock room", err)
	}
	return nil
}

func (r *BookingRepository) HasOverlap(ctx context.Context, hotelID uuid.UUID, room int, stay booking.StayDates) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE hotel_id = $1
			  AND room = $2
			  AND status <> 'cancelled'
			  AND check_in < $4
			  AND check_out > $3
		)`

	var exists bool
	err := r.db.QueryRow(ctx, query, hotelID, room, stay.CheckIn(), stay.CheckOut()).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

func (r *BookingRepository) ReferenceExists(ctx context.Context, reference booking.Reference) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM bookings WHERE reference = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, reference.String()).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check booking reference", err)
	}
	return exists, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	const query = `
		INSERT INTO bookings (
			id, reference, user_id, hotel_id, owner_id, room,
			adults, children, check_in, check_out,
			guest_name, guest_phone, guest_country_code,
			total_price_cents, coupon_id, status
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16
		)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		b.ID(), b.Reference().String(), b.UserID(), b.HotelID(), b.OwnerID(), b.Room(),
		b.Occupancy().Adults(), b.Occupancy().Children(), b.Stay().CheckIn(), b.Stay().CheckOut(),
		b.Contact().Name, b.Contact().Phone, b.Contact().CountryCode,
		b.Price().Cents(), b.CouponID(), string(b.Status()),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return uuid.Nil, infra.WrapRepoErr("booking reference already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	const query = `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) MarkCancelled(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	const query = `
		UPDATE bookings
		SET status = 'cancelled', cancel_reason = $2, cancelled_at = $3, updated_at = now()
		WHERE id = $1
		  AND status <> 'cancelled'`

	tag, err := r.db.Exec(ctx, query, id, reason, at)
	if err != nil {
		return infra.WrapRepoErr("failed to cancel booking", err)
	}
	// The predicate keeps a second cancel from overwriting the recorded
	// reason and timestamp; zero rows means it already happened.
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking already cancelled", pgx.ErrNoRows, infra.KindConflict)
	}
	return nil
}
