package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"styledecor/internal/checkout"
	"styledecor/internal/domain"
	"styledecor/internal/events"
	"styledecor/internal/pkg/lock"
	"styledecor/internal/pkg/tracking"
	"styledecor/internal/pkg/utils"
	"styledecor/internal/pkg/validator"
	"styledecor/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	successPath = "/dashboard/payment-success?session_id=" + checkout.SessionIDPlaceholder
	cancelPath  = "/dashboard/payment-cancelled"
)

type Options struct {
	ClientURL string
	Currency  string
}

type Service struct {
	provider Provider
	payments PaymentRepository
	bookings BookingRepository
	tx       Transactor
	locker   Locker
	events   EventPublisher

	clientURL string
	currency  string

	now        func() time.Time
	trackingID func(time.Time) (string, error)
	loggerf    func(format string, args ...interface{})
}

// NewService wires the settlement handler. tx, locker and publisher may be nil.
func NewService(
	provider Provider,
	payments PaymentRepository,
	bookings BookingRepository,
	tx Transactor,
	locker Locker,
	publisher EventPublisher,
	opts Options,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	currency := strings.ToLower(opts.Currency)
	if currency == "" {
		currency = "thb"
	}
	return &Service{
		provider:   provider,
		payments:   payments,
		bookings:   bookings,
		tx:         tx,
		locker:     locker,
		events:     publisher,
		clientURL:  strings.TrimRight(opts.ClientURL, "/"),
		currency:   currency,
		now:        time.Now,
		trackingID: tracking.Generate,
		loggerf:    loggerf,
	}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTransaction(ctx, fn)
}

// MinorUnits converts a cost into provider minor units, truncating fractions of a cent.
func MinorUnits(cost float64) int64 {
	return decimal.NewFromFloat(cost).Shift(2).IntPart()
}

// MajorUnits is the inverse of MinorUnits for amounts reported by the provider.
func MajorUnits(amount int64) float64 {
	return decimal.New(amount, -2).InexactFloat64()
}

// CreateCheckout opens a hosted checkout for one booking. Nothing is written locally.
func (s *Service) CreateCheckout(ctx context.Context, callerEmail string, isAdmin bool, req CheckoutRequest) (*CheckoutResponse, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}
	if !isAdmin && !utils.SameEmail(req.CustomerEmail, callerEmail) {
		return nil, ErrForbidden
	}
	amount := MinorUnits(req.ServiceCost)
	if amount <= 0 {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !isAdmin && !utils.SameEmail(b.CustomerEmail, callerEmail) {
		return nil, ErrForbidden
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return nil, ErrBookingAlreadyPaid
	}

	sess, err := s.provider.CreateSession(ctx, checkout.SessionRequest{
		AmountMinor:   amount,
		Currency:      s.currency,
		ProductName:   req.ServiceName,
		CustomerEmail: utils.NormalizeEmail(req.CustomerEmail),
		SuccessURL:    s.clientURL + successPath,
		CancelURL:     s.clientURL + cancelPath,
		Metadata: map[string]string{
			"bookingId":     strconv.FormatInt(req.BookingID, 10),
			"serviceName":   req.ServiceName,
			"customerEmail": utils.NormalizeEmail(req.CustomerEmail),
		},
	})
	if err != nil {
		s.loggerf("level=error msg=checkout session failed booking_id=%d err=%v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	s.loggerf("level=info msg=checkout session created booking_id=%d session_id=%s amount=%d currency=%s",
		req.BookingID, sess.ID, amount, s.currency)
	return &CheckoutResponse{URL: sess.URL, SessionID: sess.ID}, nil
}

// Settle records a finished checkout. Repeated calls for the same transaction report
// the original tracking id and write nothing.
func (s *Service) Settle(ctx context.Context, sessionID string) (*SettlementResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrValidation
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, "settle:"+sessionID)
		switch {
		case errors.Is(err, lock.ErrLocked):
			return nil, ErrSettlementInProgress
		case err != nil:
			// the unique transaction id still guards correctness
			s.loggerf("level=warn msg=settlement lock unavailable session_id=%s err=%v", sessionID, err)
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					s.loggerf("level=warn msg=settlement lock release failed session_id=%s err=%v", sessionID, err)
				}
			}()
		}
	}

	sess, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	transactionID := sess.TransactionID
	if transactionID == "" && sess.Paid() {
		transactionID = sess.ID
	}

	if transactionID != "" {
		if existing, err := s.existing(ctx, transactionID); err != nil || existing != nil {
			return existing, err
		}
	}

	if !sess.Paid() {
		s.loggerf("level=info msg=checkout not paid session_id=%s status=%s", sessionID, sess.PaymentStatus)
		return &SettlementResult{}, nil
	}

	bookingID, err := strconv.ParseInt(sess.Metadata["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		s.loggerf("level=error msg=checkout session without booking session_id=%s metadata=%v", sessionID, sess.Metadata)
		return nil, ErrValidation
	}

	trackingID, err := s.trackingID(s.now())
	if err != nil {
		return nil, err
	}

	var (
		res     *SettlementResult
		booking *domain.Booking
	)
	err = s.inTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrBookingNotFound
			}
			return err
		}
		booking = b

		rows, err := s.bookings.MarkPaid(ctx, bookingID, trackingID, transactionID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errRaceLost
		}

		p := &domain.Payment{
			TransactionID: transactionID,
			Amount:        MajorUnits(sess.AmountTotal),
			Currency:      firstNonEmpty(sess.Currency, s.currency),
			CustomerEmail: firstNonEmpty(sess.CustomerEmail, sess.Metadata["customerEmail"], b.CustomerEmail),
			BookingID:     bookingID,
			ServiceName:   firstNonEmpty(sess.Metadata["serviceName"], b.ServiceName),
			PaymentStatus: domain.PaymentPaid,
			TrackingID:    trackingID,
			PaidAt:        s.now().UTC(),
		}
		if err := s.payments.Create(ctx, p); err != nil {
			if repository.IsDuplicate(err) {
				return errRaceLost
			}
			return err
		}

		res = &SettlementResult{
			Paid:          true,
			TrackingID:    trackingID,
			TransactionID: transactionID,
			BookingResult: domain.Updated(rows),
			PaymentResult: domain.Inserted(p.ID),
		}
		return nil
	})
	if errors.Is(err, errRaceLost) {
		return s.settledElsewhere(ctx, bookingID, transactionID)
	}
	if err != nil {
		return nil, err
	}

	if res.Paid {
		s.loggerf("level=info msg=payment settled booking_id=%d transaction_id=%s tracking_id=%s", bookingID, transactionID, trackingID)
		audience := []string{booking.CustomerEmail}
		if booking.DecoratorEmail != nil {
			audience = append(audience, *booking.DecoratorEmail)
		}
		s.publish(ctx, events.New(events.PaymentSettled, map[string]interface{}{
			"bookingId":     bookingID,
			"transactionId": transactionID,
			"trackingId":    trackingID,
			"amount":        MajorUnits(sess.AmountTotal),
		}, audience...))
	}
	return res, nil
}

// settledElsewhere answers for a booking whose paid flag or receipt was written by another caller.
func (s *Service) settledElsewhere(ctx context.Context, bookingID int64, transactionID string) (*SettlementResult, error) {
	existing, err := s.existing(ctx, transactionID)
	if err != nil || existing != nil {
		return existing, err
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.loggerf("level=warn msg=booking already paid booking_id=%d transaction_id=%s", bookingID, transactionID)
	return &SettlementResult{AlreadyPaid: true, TrackingID: deref(b.TrackingID)}, nil
}

func (s *Service) existing(ctx context.Context, transactionID string) (*SettlementResult, error) {
	p, err := s.payments.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &SettlementResult{AlreadyPaid: true, TrackingID: p.TrackingID, TransactionID: p.TransactionID}, nil
}

// History lists the caller's receipts, newest first.
func (s *Service) History(ctx context.Context, callerEmail string, isAdmin bool, email string) ([]domain.Payment, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		email = callerEmail
	}
	if !isAdmin && !utils.SameEmail(email, callerEmail) {
		return nil, ErrForbidden
	}
	return s.payments.ListByCustomer(ctx, email)
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.loggerf("level=warn msg=event publish failed type=%s err=%v", ev.Type, err)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
