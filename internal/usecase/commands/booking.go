package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/infra"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/config"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/queries"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrHotelNotFound           = errs.New("hotel not found")
	ErrHotelUnavailable        = errs.New("hotel is not available")
	ErrRoomUnavailable         = errs.New("room is already booked for these dates")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrReferenceExhausted      = errs.New("could not generate a unique booking reference")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CreateBookingCommand struct {
	HotelID          uuid.UUID
	Room             int
	Adults           int
	Children         int
	CheckIn          time.Time
	CheckOut         time.Time
	GuestName        string
	GuestPhone       string
	GuestCountryCode string
	// TotalPriceCents overrides the server-side nightly computation when the
	// client carries a quoted (e.g. coupon-discounted) total.
	TotalPriceCents *int64
	CouponID        *uuid.UUID
}

// CreateBookingResult is a two-phase outcome: the booking is the primary,
// committed effect; coupon marking is an attempted side effect whose failure
// never undoes the booking.
type CreateBookingResult struct {
	Booking       *queries.BookingView
	CouponApplied bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, cmd CreateBookingCommand, userID uuid.UUID) (*CreateBookingResult, error)
	UpdateStatus(ctx context.Context, reference string, status string) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, reference string, userID uuid.UUID, reason string) (*queries.BookingView, error)
}

type bookingUseCaseImpl struct {
	uow            shared.UnitOfWork
	couponMarker   shared.CouponMarker
	bookingQueries queries.BookingQueries
	calculator     booking.PriceCalculator
	clock          clock.Clock
	cfg            config.BookingConfig
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	couponMarker shared.CouponMarker,
	bookingQueries queries.BookingQueries,
	calculator booking.PriceCalculator,
	clk clock.Clock,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:            uow,
		couponMarker:   couponMarker,
		bookingQueries: bookingQueries,
		calculator:     calculator,
		clock:          clk,
		cfg:            cfg,
	}
}

func (u *bookingUseCaseImpl) CreateBooking(ctx context.Context, cmd CreateBookingCommand, userID uuid.UUID) (*CreateBookingResult, error) {
	hotel, err := u.validateHotel(ctx, cmd.HotelID)
	if err != nil {
		return nil, err
	}

	stay, err := booking.NewStayDates(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := stay.ValidateWindowAt(u.clock.Now(), u.cfg.AdvanceWindowMonths); err != nil {
		return nil, err
	}

	occupancy, err := booking.NewOccupancy(cmd.Adults, cmd.Children)
	if err != nil {
		return nil, err
	}

	price, err := u.resolvePrice(cmd, hotel, stay)
	if err != nil {
		return nil, err
	}

	contact := booking.GuestContact{
		Name:        cmd.GuestName,
		Phone:       cmd.GuestPhone,
		CountryCode: cmd.GuestCountryCode,
	}

	var reference booking.Reference
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if lockErr := tx.Bookings().LockRoom(ctx, hotel.ID, cmd.Room); lockErr != nil {
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		overlap, overlapErr := tx.Bookings().HasOverlap(ctx, hotel.ID, cmd.Room, stay)
		if overlapErr != nil {
			return errs.Mark(overlapErr, ErrDatabaseOperationFailed)
		}
		if overlap {
			return ErrRoomUnavailable
		}

		b, insertErr := u.insertWithUniqueReference(ctx, tx, func(ref booking.Reference) *booking.Booking {
			return booking.NewBooking(ref, userID, hotel.ID, hotel.OwnerID, cmd.Room, occupancy, stay, contact, price, cmd.CouponID)
		})
		if insertErr != nil {
			return insertErr
		}

		reference = b.Reference()
		return u.enqueueConfirmation(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	// The booking is durable from here on; everything below is best effort
	// or read-only.
	couponApplied := u.markCouponApplied(ctx, cmd.CouponID, userID, reference)

	view, err := u.bookingQueries.GetByReference(ctx, reference.String())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CreateBookingResult{Booking: view, CouponApplied: couponApplied}, nil
}

func (u *bookingUseCaseImpl) UpdateStatus(ctx context.Context, reference string, status string) (*queries.BookingView, error) {
	next := booking.Status(status)
	if !next.IsValid() {
		return nil, booking.ErrInvalidStatus
	}

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, readErr := tx.Reads().BookingByReference(ctx, reference)
		if readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}

		if !booking.Status(snap.Status).CanTransitionTo(next) {
			return booking.ErrTransitionNotAllowed
		}

		return tx.Bookings().UpdateStatus(ctx, snap.ID, next)
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByReference(ctx, reference)
}

func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, reference string, userID uuid.UUID, reason string) (*queries.BookingView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, readErr := tx.Reads().BookingByReference(ctx, reference)
		if readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}

		// Foreign bookings answer not-found, never forbidden: the response
		// must not reveal that the reference exists.
		if snap.UserID != userID {
			return ErrBookingNotFound
		}

		agg := u.reconstructForCancel(snap)
		if cancelErr := agg.Cancel(reason, u.clock.Now()); cancelErr != nil {
			return cancelErr
		}

		if markErr := tx.Bookings().MarkCancelled(ctx, snap.ID, *agg.CancelReason(), *agg.CancelledAt()); markErr != nil {
			// The snapshot proved the booking exists, so a no-op update means a
			// concurrent cancel got there first.
			if infra.IsKind(markErr, infra.KindConflict) {
				return booking.ErrAlreadyCancelled
			}
			return errs.Mark(markErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByReference(ctx, reference)
}

func (u *bookingUseCaseImpl) validateHotel(ctx context.Context, hotelID uuid.UUID) (*shared.HotelSnapshot, error) {
	hotel, err := u.uow.Reads().HotelByID(ctx, hotelID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !hotel.IsAvailable {
		return nil, ErrHotelUnavailable
	}
	return hotel, nil
}

func (u *bookingUseCaseImpl) resolvePrice(cmd CreateBookingCommand, hotel *shared.HotelSnapshot, stay booking.StayDates) (booking.Money, error) {
	if cmd.TotalPriceCents != nil {
		return booking.NewMoney(*cmd.TotalPriceCents)
	}
	return booking.NewMoney(u.calculator.TotalCents(hotel.PricePerNightCents, stay))
}

// insertWithUniqueReference draws references until the insert sticks. The
// pre-check screens out references already committed; one minted concurrently
// by a transaction on another room slips past it and past the per-room lock,
// surfaces as a duplicate-key insert, and regenerates the same way.
func (u *bookingUseCaseImpl) insertWithUniqueReference(ctx context.Context, tx shared.Tx, build func(booking.Reference) *booking.Booking) (*booking.Booking, error) {
	attempts := u.cfg.ReferenceMaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	for i := 0; i < attempts; i++ {
		ref := booking.NewReference()
		taken, err := tx.Bookings().ReferenceExists(ctx, ref)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if taken {
			continue
		}

		b := build(ref)
		_, createErr := tx.Bookings().Create(ctx, b)
		if createErr == nil {
			return b, nil
		}
		if infra.IsKind(createErr, infra.KindDuplicateKey) {
			continue
		}
		return nil, errs.Mark(createErr, ErrDatabaseOperationFailed)
	}
	return nil, ErrReferenceExhausted
}

func (u *bookingUseCaseImpl) enqueueConfirmation(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	payload, err := json.Marshal(map[string]any{
		"bookingId":   b.Reference().String(),
		"name":        b.Contact().Name,
		"number":      b.Contact().Phone,
		"countryCode": b.Contact().CountryCode,
		"checkIn":     b.Stay().CheckIn().Format("2006-01-02"),
		"checkOut":    b.Stay().CheckOut().Format("2006-01-02"),
	})
	if err != nil {
		return errs.Wrap(err, "failed to build confirmation payload")
	}
	return tx.Notifications().CreateJob(ctx, "sms", "booking_confirmation", payload, u.clock.Now())
}

// markCouponApplied is advisory bookkeeping after the booking committed:
// failures and no-ops are logged, never surfaced as request failures.
func (u *bookingUseCaseImpl) markCouponApplied(ctx context.Context, couponID *uuid.UUID, userID uuid.UUID, reference booking.Reference) bool {
	if couponID == nil {
		return false
	}

	applied, err := u.couponMarker.MarkApplied(ctx, *couponID, userID)
	if err != nil {
		slog.Error("coupon marking failed after booking commit",
			"booking", reference.String(),
			"coupon", couponID.String(),
			"error", err.Error())
		return false
	}
	if !applied {
		slog.Info("coupon not marked: unknown coupon or already applied",
			"booking", reference.String(),
			"coupon", couponID.String())
	}
	return applied
}

func (u *bookingUseCaseImpl) reconstructForCancel(snap *shared.BookingSnapshot) *booking.Booking {
	stay, _ := booking.NewStayDates(snap.CheckIn, snap.CheckOut)
	occupancy, _ := booking.NewOccupancy(1, 0)
	price, _ := booking.NewMoney(0)
	return booking.ReconstructBooking(
		snap.ID, booking.Reference(snap.Reference),
		snap.UserID, snap.HotelID, snap.OwnerID,
		snap.Room, occupancy, stay, booking.GuestContact{}, price, snap.CouponID,
		booking.Status(snap.Status), nil, nil,
		time.Time{}, time.Time{},
	)
}
