//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/infra"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/config"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes standing in for the Postgres unit of work.

type fakeBookingRepo struct {
	overlap        bool
	referenceTaken bool
	createErrs     []error
	createCalls    int
	cancelErr      error
	created        []*booking.Booking
	statusUpdates  map[uuid.UUID]booking.Status
	cancellations  map[uuid.UUID]cancelRecord
}

type cancelRecord struct {
	reason string
	at     time.Time
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		statusUpdates: make(map[uuid.UUID]booking.Status),
		cancellations: make(map[uuid.UUID]cancelRecord),
	}
}

func (r *fakeBookingRepo) LockRoom(context.Context, uuid.UUID, int) error { return nil }

func (r *fakeBookingRepo) HasOverlap(context.Context, uuid.UUID, int, booking.StayDates) (bool, error) {
	return r.overlap, nil
}

func (r *fakeBookingRepo) ReferenceExists(context.Context, booking.Reference) (bool, error) {
	return r.referenceTaken, nil
}

// Create pops one scripted error per call before persisting anything.
func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) (uuid.UUID, error) {
	r.createCalls++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return uuid.Nil, err
		}
	}
	r.created = append(r.created, b)
	return b.ID(), nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status booking.Status) error {
	r.statusUpdates[id] = status
	return nil
}

func (r *fakeBookingRepo) MarkCancelled(_ context.Context, id uuid.UUID, reason string, at time.Time) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.cancellations[id] = cancelRecord{reason: reason, at: at}
	return nil
}

type notificationJob struct {
	kind, topic string
	payload     []byte
}

type fakeNotificationRepo struct {
	jobs []notificationJob
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, _ time.Time) error {
	r.jobs = append(r.jobs, notificationJob{kind: kind, topic: topic, payload: payload})
	return nil
}

type fakeReads struct {
	hotels   map[uuid.UUID]*shared.HotelSnapshot
	coupons  map[string]*shared.CouponSnapshot
	bookings map[string]*shared.BookingSnapshot
}

func newFakeReads() *fakeReads {
	return &fakeReads{
		hotels:   make(map[uuid.UUID]*shared.HotelSnapshot),
		coupons:  make(map[string]*shared.CouponSnapshot),
		bookings: make(map[string]*shared.BookingSnapshot),
	}
}

func (r *fakeReads) HotelByID(_ context.Context, id uuid.UUID) (*shared.HotelSnapshot, error) {
	if h, ok := r.hotels[id]; ok {
		return h, nil
	}
	return nil, infra.WrapRepoErr("hotel not found", assert.AnError, infra.KindNotFound)
}

func (r *fakeReads) CouponByID(context.Context, uuid.UUID) (*shared.CouponSnapshot, error) {
	return nil, infra.WrapRepoErr("coupon not found", assert.AnError, infra.KindNotFound)
}

func (r *fakeReads) CouponByCodeForUser(_ context.Context, code string, _ uuid.UUID) (*shared.CouponSnapshot, error) {
	if c, ok := r.coupons[code]; ok {
		return c, nil
	}
	return nil, infra.WrapRepoErr("coupon not found", assert.AnError, infra.KindNotFound)
}

func (r *fakeReads) BookingByReference(_ context.Context, reference string) (*shared.BookingSnapshot, error) {
	if b, ok := r.bookings[reference]; ok {
		return b, nil
	}
	return nil, infra.WrapRepoErr("booking not found", assert.AnError, infra.KindNotFound)
}

type fakeTx struct {
	bookings      *fakeBookingRepo
	notifications *fakeNotificationRepo
	reads         *fakeReads
}

func (t *fakeTx) Bookings() shared.BookingRepository          { return t.bookings }
func (t *fakeTx) Notifications() shared.NotificationRepository { return t.notifications }
func (t *fakeTx) Reads() shared.CommandReads                  { return t.reads }

type fakeUoW struct {
	tx *fakeTx
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) Reads() shared.CommandReads { return u.tx.reads }

type fakeCouponMarker struct {
	applied bool
	err     error
	calls   int
}

func (m *fakeCouponMarker) MarkApplied(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	m.calls++
	return m.applied, m.err
}

// fakeBookingQueries echoes back whichever reference was persisted; command
// tests assert against the repo, not the view contents.
type fakeBookingQueries struct{}

func (fakeBookingQueries) GetByReference(_ context.Context, reference string) (*queries.BookingView, error) {
	return &queries.BookingView{Reference: reference}, nil
}

func (fakeBookingQueries) ListByUser(context.Context, uuid.UUID, *booking.Status) ([]*queries.BookingView, error) {
	return nil, nil
}

func (fakeBookingQueries) ListByOwner(context.Context, uuid.UUID) ([]*queries.BookingView, error) {
	return nil, nil
}

type fixture struct {
	uc      commands.BookingCommands
	repo    *fakeBookingRepo
	jobs    *fakeNotificationRepo
	reads   *fakeReads
	marker  *fakeCouponMarker
	clock   *clock.MockClock
	hotelID uuid.UUID
	ownerID uuid.UUID
	userID  uuid.UUID
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:    newFakeBookingRepo(),
		jobs:    &fakeNotificationRepo{},
		reads:   newFakeReads(),
		marker:  &fakeCouponMarker{applied: true},
		clock:   clock.NewMockClock(testNow),
		hotelID: uuid.New(),
		ownerID: uuid.New(),
		userID:  uuid.New(),
	}

	f.reads.hotels[f.hotelID] = &shared.HotelSnapshot{
		ID:                 f.hotelID,
		Name:               "Seaside Inn",
		PricePerNightCents: 150_00,
		Rooms:              20,
		IsAvailable:        true,
		OwnerID:            f.ownerID,
	}

	uow := &fakeUoW{tx: &fakeTx{bookings: f.repo, notifications: f.jobs, reads: f.reads}}
	f.uc = commands.NewBookingUseCase(
		uow, f.marker, fakeBookingQueries{}, booking.NewNightlyRateCalculator(),
		f.clock, config.BookingConfig{AdvanceWindowMonths: 6, ReferenceMaxAttempts: 5},
	)
	return f
}

func validCommand(f *fixture) commands.CreateBookingCommand {
	return commands.CreateBookingCommand{
		HotelID:     f.hotelID,
		Room:        101,
		Adults:      2,
		Children:    0,
		CheckIn:     testNow.AddDate(0, 0, 10),
		CheckOut:    testNow.AddDate(0, 0, 13),
		GuestName:   "Grace Hopper",
		GuestPhone:  "5550001",
		GuestCountryCode: "+1",
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists a pending booking and queues a confirmation", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.uc.CreateBooking(ctx, validCommand(f), f.userID)
		require.NoError(t, err)
		require.NotNil(t, result.Booking)

		require.Len(t, f.repo.created, 1)
		b := f.repo.created[0]
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Equal(t, f.userID, b.UserID())
		assert.Equal(t, f.ownerID, b.OwnerID(), "owner captured from the hotel")
		assert.Regexp(t, `^[A-Z][0-9]{7}$`, b.Reference().String())
		assert.Equal(t, int64(450_00), b.Price().Cents(), "3 nights at the nightly rate")

		require.Len(t, f.jobs.jobs, 1)
		assert.Equal(t, "sms", f.jobs.jobs[0].kind)
		assert.Equal(t, "booking_confirmation", f.jobs.jobs[0].topic)

		assert.False(t, result.CouponApplied)
		assert.Zero(t, f.marker.calls, "no coupon requested")
	})

	t.Run("caller-supplied total overrides the computed price", func(t *testing.T) {
		f := newFixture(t)
		quoted := int64(399_00)
		cmd := validCommand(f)
		cmd.TotalPriceCents = &quoted

		_, err := f.uc.CreateBooking(ctx, cmd, f.userID)
		require.NoError(t, err)
		assert.Equal(t, quoted, f.repo.created[0].Price().Cents())
	})

	t.Run("overlapping booking is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.repo.overlap = true

		_, err := f.uc.CreateBooking(ctx, validCommand(f), f.userID)
		assert.ErrorIs(t, err, commands.ErrRoomUnavailable)
		assert.Empty(t, f.repo.created)
		assert.Empty(t, f.jobs.jobs)
	})

	t.Run("unknown hotel", func(t *testing.T) {
		f := newFixture(t)
		cmd := validCommand(f)
		cmd.HotelID = uuid.New()

		_, err := f.uc.CreateBooking(ctx, cmd, f.userID)
		assert.ErrorIs(t, err, commands.ErrHotelNotFound)
	})

	t.Run("unavailable hotel", func(t *testing.T) {
		f := newFixture(t)
		f.reads.hotels[f.hotelID].IsAvailable = false

		_, err := f.uc.CreateBooking(ctx, validCommand(f), f.userID)
		assert.ErrorIs(t, err, commands.ErrHotelUnavailable)
	})

	t.Run("check-in in the past", func(t *testing.T) {
		f := newFixture(t)
		cmd := validCommand(f)
		cmd.CheckIn = testNow.AddDate(0, 0, -1)
		cmd.CheckOut = testNow.AddDate(0, 0, 2)

		_, err := f.uc.CreateBooking(ctx, cmd, f.userID)
		assert.ErrorIs(t, err, booking.ErrCheckInInPast)
	})

	t.Run("check-in beyond the advance window", func(t *testing.T) {
		f := newFixture(t)
		cmd := validCommand(f)
		cmd.CheckIn = testNow.AddDate(0, 6, 1)
		cmd.CheckOut = testNow.AddDate(0, 6, 3)

		_, err := f.uc.CreateBooking(ctx, cmd, f.userID)
		assert.ErrorIs(t, err, booking.ErrAdvanceWindow)
	})

	t.Run("check-in exactly on the window boundary is accepted", func(t *testing.T) {
		f := newFixture(t)
		cmd := validCommand(f)
		cmd.CheckIn = testNow.AddDate(0, 6, 0)
		cmd.CheckOut = testNow.AddDate(0, 6, 2)

		_, err := f.uc.CreateBooking(ctx, cmd, f.userID)
		assert.NoError(t, err)
	})

	t.Run("reference space exhausted", func(t *testing.T) {
		f := newFixture(t)
		f.repo.referenceTaken = true

		_, err := f.uc.CreateBooking(ctx, validCommand(f), f.userID)
		assert.ErrorIs(t, err, commands.ErrReferenceExhausted)
		assert.Empty(t, f.repo.created)
	})

	t.Run("duplicate reference on insert regenerates", func(t *testing.T) {
		f := newFixture(t)
		f.repo.createErrs = []error{
			infra.WrapRepoErr("booking reference already exists", assert.AnError, infra.KindDuplicateKey),
		}

		result, err := f.uc.CreateBooking(ctx, validCommand(f), f.userID)
		require.NoError(t, err)
		require.NotNil(t, result.Booking)

		assert.Equal(t, 2, f.repo.createCalls, "first insert lost the reference race")
		require.Len(t, f.repo.created, 1)
		assert.Regexp(t, `^[A-Z][0-9]{7}$`, f.repo.created[0].Reference().String())
		require.Len(t, f.jobs.jobs, 1, "confirmation queued for the retried insert")
	})

	t.Run("persistent duplicate references exhaust the attempts", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 5; i++ {
			f.repo.createErrs = append(f.repo.createErrs,
				infra.WrapRepoErr("booking reference already exists", assert.AnError, infra.KindDuplicateKey))
		}

		_, err := f.uc.CreateBooking(ctx, validCommand(f), f.userID)
		assert.ErrorIs(t, err, commands.ErrReferenceExhausted)
		assert.Empty(t, f.repo.created)
		assert.Empty(t, f.jobs.jobs)
	})

	t.Run("coupon marked after commit", func(t *testing.T) {
		f := newFixture(t)
		couponID := uuid.New()
		cmd := validCommand(f)
		cmd.CouponID = &couponID

		result, err := f.uc.CreateBooking(ctx, cmd, f.userID)
		require.NoError(t, err)
		assert.True(t, result.CouponApplied)
		assert.Equal(t, 1, f.marker.calls)
	})

	t.Run("coupon marking failure never fails the booking", func(t *testing.T) {
		f := newFixture(t)
		f.marker.err = assert.AnError
		couponID := uuid.New()
		cmd := validCommand(f)
		cmd.CouponID = &couponID

		result, err := f.uc.CreateBooking(ctx, cmd, f.userID)
		require.NoError(t, err, "booking is the primary effect")
		assert.False(t, result.CouponApplied)
		assert.Len(t, f.repo.created, 1)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	snapshot := func(f *fixture, status string) *shared.BookingSnapshot {
		snap := &shared.BookingSnapshot{
			ID:        uuid.New(),
			Reference: "W1234567",
			UserID:    f.userID,
			HotelID:   f.hotelID,
			OwnerID:   f.ownerID,
			Room:      101,
			Status:    status,
			CheckIn:   testNow.AddDate(0, 0, 10),
			CheckOut:  testNow.AddDate(0, 0, 12),
		}
		f.reads.bookings[snap.Reference] = snap
		return snap
	}

	t.Run("moves booking to the requested status", func(t *testing.T) {
		f := newFixture(t)
		snap := snapshot(f, "pending")

		view, err := f.uc.UpdateStatus(ctx, snap.Reference, "upcoming")
		require.NoError(t, err)
		assert.Equal(t, snap.Reference, view.Reference)
		assert.Equal(t, booking.StatusUpcoming, f.repo.statusUpdates[snap.ID])
	})

	t.Run("invalid status value", func(t *testing.T) {
		f := newFixture(t)
		snapshot(f, "pending")

		_, err := f.uc.UpdateStatus(ctx, "W1234567", "confirmed")
		assert.ErrorIs(t, err, booking.ErrInvalidStatus)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.UpdateStatus(ctx, "Z9999999", "upcoming")
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	snapshot := func(f *fixture, userID uuid.UUID, status string) *shared.BookingSnapshot {
		snap := &shared.BookingSnapshot{
			ID:        uuid.New(),
			Reference: "W1234567",
			UserID:    userID,
			HotelID:   f.hotelID,
			OwnerID:   f.ownerID,
			Room:      101,
			Status:    status,
			CheckIn:   testNow.AddDate(0, 0, 10),
			CheckOut:  testNow.AddDate(0, 0, 12),
		}
		f.reads.bookings[snap.Reference] = snap
		return snap
	}

	t.Run("owner cancels with a reason", func(t *testing.T) {
		f := newFixture(t)
		snap := snapshot(f, f.userID, "upcoming")

		_, err := f.uc.CancelBooking(ctx, snap.Reference, f.userID, "  change of plans  ")
		require.NoError(t, err)

		rec, ok := f.repo.cancellations[snap.ID]
		require.True(t, ok)
		assert.Equal(t, "change of plans", rec.reason)
		assert.Equal(t, testNow, rec.at)
	})

	t.Run("someone else's booking reads as not found", func(t *testing.T) {
		f := newFixture(t)
		snapshot(f, uuid.New(), "upcoming")

		_, err := f.uc.CancelBooking(ctx, "W1234567", f.userID, "reason")
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
		assert.Empty(t, f.repo.cancellations)
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.CancelBooking(ctx, "Z9999999", f.userID, "reason")
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("already cancelled", func(t *testing.T) {
		f := newFixture(t)
		snapshot(f, f.userID, "cancelled")

		_, err := f.uc.CancelBooking(ctx, "W1234567", f.userID, "again")
		assert.ErrorIs(t, err, booking.ErrAlreadyCancelled)
	})

	t.Run("racing cancel that lands second reads as already cancelled", func(t *testing.T) {
		f := newFixture(t)
		snapshot(f, f.userID, "upcoming")
		f.repo.cancelErr = infra.WrapRepoErr("booking already cancelled", assert.AnError, infra.KindConflict)

		_, err := f.uc.CancelBooking(ctx, "W1234567", f.userID, "reason")
		assert.ErrorIs(t, err, booking.ErrAlreadyCancelled)
		assert.Empty(t, f.repo.cancellations)
	})

	t.Run("missing reason", func(t *testing.T) {
		f := newFixture(t)
		snapshot(f, f.userID, "upcoming")

		_, err := f.uc.CancelBooking(ctx, "W1234567", f.userID, "   ")
		assert.ErrorIs(t, err, booking.ErrCancelReasonRequired)
		assert.Empty(t, f.repo.cancellations)
	})
}
