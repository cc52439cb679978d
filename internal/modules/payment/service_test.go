package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"styledecor/internal/checkout"
	"styledecor/internal/checkout/checkouttest"
	"styledecor/internal/database"
	"styledecor/internal/domain"
	"styledecor/internal/events"
	"styledecor/internal/pkg/lock"
	"styledecor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	provider  *checkouttest.Provider
	bookings  *repository.BookingRepository
	payments  *repository.PaymentRepository
	published []events.Event
	svc       *Service
}

type recordingPublisher struct{ f *fixture }

func (p recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.f.published = append(p.f.published, ev)
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	f := &fixture{
		db:       db,
		provider: checkouttest.New(),
		bookings: repository.NewBookingRepository(db),
		payments: repository.NewPaymentRepository(db),
	}
	f.svc = NewService(f.provider, f.payments, f.bookings, database.NewTransactor(db), nil,
		recordingPublisher{f}, Options{ClientURL: "https://shop.test/", Currency: "USD"}, nil)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) seedBooking(t *testing.T, cost float64) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		CustomerEmail: "ann@test.com",
		ServiceID:     1,
		ServiceName:   "Wedding Stage",
		Date:          "2025-03-10",
		Time:          "10:00",
		TotalCost:     cost,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
		OrderedAt:     time.Now(),
	}
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

func (f *fixture) countPayments(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.Payment{}).Count(&n).Error)
	return n
}

func checkoutFor(b *domain.Booking) CheckoutRequest {
	return CheckoutRequest{
		ServiceCost:   b.TotalCost,
		ServiceName:   b.ServiceName,
		BookingID:     b.ID,
		CustomerEmail: b.CustomerEmail,
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10000), MinorUnits(100))
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.Equal(t, int64(0), MinorUnits(0.001))
	assert.Equal(t, 100.0, MajorUnits(10000))
	assert.Equal(t, 19.99, MajorUnits(1999))
}

func TestCheckoutToSettlement_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBooking(t, 100)

	out, err := f.svc.CreateCheckout(ctx, "ann@test.com", false, checkoutFor(b))
	require.NoError(t, err)
	require.NotEmpty(t, out.SessionID)
	assert.NotEmpty(t, out.URL)

	require.Len(t, f.provider.Requests, 1)
	req := f.provider.Requests[0]
	assert.Equal(t, int64(10000), req.AmountMinor)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "https://shop.test/dashboard/payment-success?session_id="+checkout.SessionIDPlaceholder, req.SuccessURL)
	assert.Equal(t, "https://shop.test/dashboard/payment-cancelled", req.CancelURL)
	assert.Equal(t, "Wedding Stage", req.Metadata["serviceName"])
	assert.Equal(t, "ann@test.com", req.Metadata["customerEmail"])
	assert.Zero(t, f.countPayments(t), "checkout must not write locally")

	f.provider.Complete(out.SessionID, "chrg_test_1")

	res, err := f.svc.Settle(ctx, out.SessionID)
	require.NoError(t, err)
	assert.True(t, res.Paid)
	assert.False(t, res.AlreadyPaid)
	assert.Equal(t, "chrg_test_1", res.TransactionID)
	assert.Regexp(t, `^SD-20250309-[0-9A-F]{8}$`, res.TrackingID)
	assert.Equal(t, int64(1), res.BookingResult.ModifiedCount)
	assert.NotZero(t, res.PaymentResult.InsertedID)

	got, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	require.NotNil(t, got.TrackingID)
	assert.Equal(t, res.TrackingID, *got.TrackingID)
	require.NotNil(t, got.TransactionID)
	assert.Equal(t, "chrg_test_1", *got.TransactionID)

	p, err := f.payments.GetByTransactionID(ctx, "chrg_test_1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Amount)
	assert.Equal(t, "usd", p.Currency)
	assert.Equal(t, b.ID, p.BookingID)
	assert.Equal(t, "Wedding Stage", p.ServiceName)
	assert.Equal(t, domain.PaymentPaid, p.PaymentStatus)
	assert.Equal(t, res.TrackingID, p.TrackingID)
	assert.Equal(t, int64(1), f.countPayments(t))

	require.Len(t, f.published, 1)
	assert.Equal(t, events.PaymentSettled, f.published[0].Type)
	assert.Equal(t, []string{"ann@test.com"}, f.published[0].Audience)
}

func TestSettle_SecondCallIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBooking(t, 40)

	out, err := f.svc.CreateCheckout(ctx, "ann@test.com", false, checkoutFor(b))
	require.NoError(t, err)
	f.provider.Complete(out.SessionID, "chrg_test_2")

	first, err := f.svc.Settle(ctx, out.SessionID)
	require.NoError(t, err)
	second, err := f.svc.Settle(ctx, out.SessionID)
	require.NoError(t, err)

	assert.True(t, second.AlreadyPaid)
	assert.False(t, second.Paid)
	assert.Equal(t, first.TrackingID, second.TrackingID)
	assert.Equal(t, int64(1), f.countPayments(t))
	assert.Len(t, f.published, 1)
}

func TestSettle_NotPaidWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBooking(t, 40)

	out, err := f.svc.CreateCheckout(ctx, "ann@test.com", false, checkoutFor(b))
	require.NoError(t, err)

	res, err := f.svc.Settle(ctx, out.SessionID)
	require.NoError(t, err)
	assert.False(t, res.Paid)
	assert.False(t, res.AlreadyPaid)
	assert.Zero(t, f.countPayments(t))

	got, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentUnpaid, got.PaymentStatus)
}

func TestSettle_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Settle(ctx, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Settle(ctx, "cs_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	f.provider.Err = errors.New("gateway timeout")
	_, err = f.svc.Settle(ctx, "cs_missing")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestSettle_PaidSessionWithoutBooking(t *testing.T) {
	f := newFixture(t)
	f.provider.Put(&checkout.Session{
		ID:            "cs_orphan",
		PaymentStatus: checkout.StatusPaid,
		TransactionID: "chrg_orphan",
		AmountTotal:   500,
		Metadata:      map[string]string{"bookingId": "404"},
	})

	_, err := f.svc.Settle(context.Background(), "cs_orphan")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Zero(t, f.countPayments(t))
}

// hiddenPayments pretends the first lookup misses, as a concurrent winner would not yet be visible.
type hiddenPayments struct {
	*repository.PaymentRepository
	lookups int
}

func (h *hiddenPayments) GetByTransactionID(ctx context.Context, id string) (*domain.Payment, error) {
	h.lookups++
	if h.lookups == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return h.PaymentRepository.GetByTransactionID(ctx, id)
}

func TestSettle_RaceLoserReportsWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBooking(t, 100)

	f.provider.Put(&checkout.Session{
		ID:            "cs_race",
		PaymentStatus: checkout.StatusPaid,
		TransactionID: "chrg_race",
		AmountTotal:   10000,
		Metadata:      map[string]string{"bookingId": "1"},
	})
	require.Equal(t, int64(1), b.ID)

	// the winner already committed both writes
	_, err := f.bookings.MarkPaid(ctx, b.ID, "SD-20250309-AAAAAAAA", "chrg_race")
	require.NoError(t, err)
	require.NoError(t, f.payments.Create(ctx, &domain.Payment{
		TransactionID: "chrg_race", Amount: 100, CustomerEmail: b.CustomerEmail,
		BookingID: b.ID, TrackingID: "SD-20250309-AAAAAAAA", PaidAt: time.Now(),
	}))

	hidden := &hiddenPayments{PaymentRepository: f.payments}
	f.svc.payments = hidden

	res, err := f.svc.Settle(ctx, "cs_race")
	require.NoError(t, err)
	assert.True(t, res.AlreadyPaid)
	assert.Equal(t, "SD-20250309-AAAAAAAA", res.TrackingID)
	assert.Equal(t, int64(1), f.countPayments(t))
	assert.Empty(t, f.published)
}

func TestSettle_DuplicateReceiptRollsBackBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBooking(t, 100)

	f.provider.Put(&checkout.Session{
		ID:            "cs_dup",
		PaymentStatus: checkout.StatusPaid,
		TransactionID: "chrg_dup",
		AmountTotal:   10000,
		Metadata:      map[string]string{"bookingId": "1"},
	})
	require.NoError(t, f.payments.Create(ctx, &domain.Payment{
		TransactionID: "chrg_dup", Amount: 100, CustomerEmail: b.CustomerEmail,
		BookingID: b.ID, TrackingID: "SD-20250309-BBBBBBBB", PaidAt: time.Now(),
	}))
	f.svc.payments = &hiddenPayments{PaymentRepository: f.payments}

	res, err := f.svc.Settle(ctx, "cs_dup")
	require.NoError(t, err)
	assert.True(t, res.AlreadyPaid)
	assert.Equal(t, "SD-20250309-BBBBBBBB", res.TrackingID)

	got, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentUnpaid, got.PaymentStatus, "booking update must roll back with the failed insert")
}

type stubLocker struct {
	err      error
	acquired []string
	released int
}

func (l *stubLocker) Acquire(_ context.Context, name string) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, name)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

func TestSettle_Lock(t *testing.T) {
	ctx := context.Background()

	t.Run("busy", func(t *testing.T) {
		f := newFixture(t)
		f.svc.locker = &stubLocker{err: lock.ErrLocked}
		_, err := f.svc.Settle(ctx, "cs_any")
		assert.ErrorIs(t, err, ErrSettlementInProgress)
	})

	t.Run("held and released", func(t *testing.T) {
		f := newFixture(t)
		l := &stubLocker{}
		f.svc.locker = l
		b := f.seedBooking(t, 10)
		out, err := f.svc.CreateCheckout(ctx, "ann@test.com", false, checkoutFor(b))
		require.NoError(t, err)
		f.provider.Complete(out.SessionID, "chrg_lock")

		res, err := f.svc.Settle(ctx, out.SessionID)
		require.NoError(t, err)
		assert.True(t, res.Paid)
		assert.Equal(t, []string{"settle:" + out.SessionID}, l.acquired)
		assert.Equal(t, 1, l.released)
	})

	t.Run("store down falls through", func(t *testing.T) {
		f := newFixture(t)
		f.svc.locker = &stubLocker{err: errors.New("dial tcp: connection refused")}
		_, err := f.svc.Settle(ctx, "cs_missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestCreateCheckout_Rules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBooking(t, 100)

	_, err := f.svc.CreateCheckout(ctx, "bob@test.com", false, checkoutFor(b))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.CreateCheckout(ctx, "admin@test.com", true, checkoutFor(b))
	assert.NoError(t, err)

	req := checkoutFor(b)
	req.BookingID = 77
	_, err = f.svc.CreateCheckout(ctx, "ann@test.com", false, req)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	req = checkoutFor(b)
	req.ServiceCost = 0
	_, err = f.svc.CreateCheckout(ctx, "ann@test.com", false, req)
	assert.ErrorIs(t, err, ErrValidation)

	f.provider.Err = errors.New("omise down")
	_, err = f.svc.CreateCheckout(ctx, "ann@test.com", false, checkoutFor(b))
	assert.ErrorIs(t, err, ErrProvider)
	f.provider.Err = nil

	_, err = f.bookings.MarkPaid(ctx, b.ID, "SD-20250309-CCCCCCCC", "chrg_x")
	require.NoError(t, err)
	_, err = f.svc.CreateCheckout(ctx, "ann@test.com", false, checkoutFor(b))
	assert.ErrorIs(t, err, ErrBookingAlreadyPaid)
}

func TestHistory_OwnOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.History(ctx, "ann@test.com", false, "bob@test.com")
	assert.ErrorIs(t, err, ErrForbidden)

	items, err := f.svc.History(ctx, "ann@test.com", false, "")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.svc.History(ctx, "admin@test.com", true, "bob@test.com")
	assert.NoError(t, err)
}
