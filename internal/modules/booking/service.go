package booking

import (
	"context"
	"strings"
	"time"

	"styledecor/internal/domain"
	"styledecor/internal/events"
	"styledecor/internal/pkg/utils"
	"styledecor/internal/pkg/validator"
	"styledecor/internal/repository"
)

const dateLayout = "2006-01-02"

// Caller is the verified identity acting on a booking.
type Caller struct {
	Email   string
	IsAdmin bool
}

func (c Caller) owns(email string) bool {
	return c.IsAdmin || (c.Email != "" && utils.SameEmail(c.Email, email))
}

type Service struct {
	bookings   BookingRepository
	decorators DecoratorRepository
	services   ServiceReader
	tx         Transactor
	events     EventPublisher
	now        func() time.Time
	loggerf    func(format string, args ...interface{})
}

func NewService(
	bookings BookingRepository,
	decorators DecoratorRepository,
	services ServiceReader,
	tx Transactor,
	publisher EventPublisher,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		bookings:   bookings,
		decorators: decorators,
		services:   services,
		tx:         tx,
		events:     publisher,
		now:        time.Now,
		loggerf:    loggerf,
	}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTransaction(ctx, fn)
}

// Create inserts a pending, unpaid booking unless the customer already holds the same
// service at the same date and time.
func (s *Service) Create(ctx context.Context, caller Caller, req CreateBookingRequest) (*domain.WriteResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}
	if !caller.owns(req.CustomerEmail) {
		return nil, ErrForbidden
	}

	if req.ServiceName == "" || req.ServiceType == "" {
		svc, err := s.services.GetByID(ctx, req.ServiceID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrValidation
			}
			return nil, err
		}
		if req.ServiceName == "" {
			req.ServiceName = svc.Name
		}
		if req.ServiceType == "" {
			req.ServiceType = svc.Category
		}
	}

	exists, err := s.bookings.ExistsSlot(ctx, req.CustomerEmail, req.ServiceID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSlot
	}

	b := &domain.Booking{
		CustomerEmail: utils.NormalizeEmail(req.CustomerEmail),
		CustomerName:  req.CustomerName,
		ServiceID:     req.ServiceID,
		ServiceName:   req.ServiceName,
		ServiceType:   req.ServiceType,
		Date:          req.Date,
		Time:          req.Time,
		Location:      req.Location,
		Notes:         req.Notes,
		TotalUnit:     req.TotalUnit,
		TotalCost:     req.TotalCost,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
		OrderedAt:     s.now().UTC(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrDuplicateSlot
		}
		return nil, err
	}

	s.loggerf("level=info msg=booking created id=%d customer=%s service_id=%d date=%s time=%s",
		b.ID, b.CustomerEmail, b.ServiceID, b.Date, b.Time)
	s.publish(ctx, events.New(events.BookingCreated, b, b.CustomerEmail))
	return domain.Inserted(b.ID), nil
}

// ListForCustomer returns bookings newest first. Admins may omit the email to see all.
func (s *Service) ListForCustomer(ctx context.Context, caller Caller, email string) ([]domain.Booking, error) {
	email = strings.TrimSpace(email)
	if email == "" && !caller.IsAdmin {
		email = caller.Email
	}
	if email != "" && !caller.owns(email) {
		return nil, ErrForbidden
	}
	return s.bookings.List(ctx, repository.BookingFilters{CustomerEmail: email})
}

func (s *Service) ListForDecorator(ctx context.Context, caller Caller, email, status string) ([]domain.Booking, error) {
	email, err := s.decoratorScope(caller, email)
	if err != nil {
		return nil, err
	}
	return s.bookings.List(ctx, repository.BookingFilters{
		DecoratorEmail: email,
		Status:         strings.TrimSpace(status),
	})
}

// TodayForDecorator returns today's paid bookings (server UTC date) in time-slot order.
func (s *Service) TodayForDecorator(ctx context.Context, caller Caller, email string) ([]domain.Booking, error) {
	email, err := s.decoratorScope(caller, email)
	if err != nil {
		return nil, err
	}
	return s.bookings.List(ctx, repository.BookingFilters{
		DecoratorEmail: email,
		PaymentStatus:  domain.PaymentPaid,
		Date:           s.now().UTC().Format(dateLayout),
		ByTimeAsc:      true,
	})
}

// Earnings totals completed, paid work; with nothing to count the summary is zero-valued.
func (s *Service) Earnings(ctx context.Context, caller Caller, email string) (*EarningsSummary, error) {
	email, err := s.decoratorScope(caller, email)
	if err != nil {
		return nil, err
	}
	row, err := s.bookings.Earnings(ctx, email)
	if err != nil {
		return nil, err
	}
	return &EarningsSummary{
		DecoratorEmail: email,
		TotalEarnings:  row.Total,
		CompletedCount: row.Count,
	}, nil
}

func (s *Service) decoratorScope(caller Caller, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		email = caller.Email
	}
	if !caller.owns(email) {
		return "", ErrForbidden
	}
	return utils.NormalizeEmail(email), nil
}

// Edit writes only the provided fields.
func (s *Service) Edit(ctx context.Context, caller Caller, id int64, req EditBookingRequest) (*domain.WriteResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}

	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.owns(b.CustomerEmail) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.ServiceType != nil {
		updates["service_type"] = *req.ServiceType
	}
	if req.Date != nil {
		updates["slot_date"] = *req.Date
	}
	if req.Time != nil {
		updates["slot_time"] = *req.Time
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.TotalUnit != nil {
		updates["total_unit"] = *req.TotalUnit
	}
	if req.TotalCost != nil {
		updates["total_cost"] = *req.TotalCost
	}
	if len(updates) == 0 {
		return nil, ErrValidation
	}

	rows, err := s.bookings.Update(ctx, id, updates)
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrDuplicateSlot
		}
		return nil, err
	}

	s.publish(ctx, events.New(events.BookingUpdated, map[string]interface{}{"bookingId": id, "changes": updates}, b.CustomerEmail))
	return domain.Updated(rows), nil
}

// AssignDecorator links an approved decorator and marks it busy, atomically.
func (s *Service) AssignDecorator(ctx context.Context, id, decoratorID int64) (*domain.WriteResult, error) {
	var (
		res  *domain.WriteResult
		b    *domain.Booking
		deco *domain.Decorator
	)
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.get(ctx, id); err != nil {
			return err
		}
		if domain.IsTerminalBookingStatus(b.Status) {
			return ErrBookingClosed
		}

		deco, err = s.decorators.GetByID(ctx, decoratorID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrDecoratorNotFound
			}
			return err
		}
		if deco.Status != domain.DecoratorApproved {
			return ErrDecoratorNotApproved
		}

		rows, err := s.bookings.Update(ctx, id, map[string]interface{}{
			"decorator_id":    deco.ID,
			"decorator_name":  deco.Name,
			"decorator_email": deco.Email,
			"status":          domain.BookingDecoratorAssigned,
		})
		if err != nil {
			return err
		}
		if _, err := s.decorators.SetWorkStatus(ctx, deco.ID, domain.WorkAssigned); err != nil {
			return err
		}

		// a reassignment frees the previous decorator when nothing else holds it
		if b.DecoratorID != nil && *b.DecoratorID != deco.ID {
			if err := s.releaseDecorator(ctx, *b.DecoratorID, id); err != nil {
				return err
			}
		}

		res = domain.Updated(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=decorator assigned booking_id=%d decorator_id=%d", id, deco.ID)
	s.publish(ctx, events.New(events.BookingAssigned, map[string]interface{}{
		"bookingId":      id,
		"decoratorId":    deco.ID,
		"decoratorName":  deco.Name,
		"decoratorEmail": deco.Email,
	}, b.CustomerEmail, deco.Email))
	return res, nil
}

// ChangeStatus lets the assigned decorator move the booking along. Returning it to
// pending unlinks the decorator; pending and terminal statuses free the decorator
// when no other open booking holds it.
func (s *Service) ChangeStatus(ctx context.Context, caller Caller, id int64, status string) (*domain.WriteResult, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrValidation
	}

	var (
		res *domain.WriteResult
		b   *domain.Booking
	)
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.get(ctx, id); err != nil {
			return err
		}
		if b.DecoratorEmail == nil || !caller.owns(*b.DecoratorEmail) {
			return ErrForbidden
		}

		updates := map[string]interface{}{"status": status}
		if status == domain.BookingPending {
			updates["decorator_id"] = nil
			updates["decorator_name"] = nil
			updates["decorator_email"] = nil
		}

		rows, err := s.bookings.Update(ctx, id, updates)
		if err != nil {
			return err
		}

		if b.DecoratorID != nil && (status == domain.BookingPending || domain.IsTerminalBookingStatus(status)) {
			if err := s.releaseDecorator(ctx, *b.DecoratorID, id); err != nil {
				return err
			}
		}

		res = domain.Updated(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	audience := []string{b.CustomerEmail}
	if b.DecoratorEmail != nil {
		audience = append(audience, *b.DecoratorEmail)
	}
	s.loggerf("level=info msg=booking status changed id=%d from=%q to=%q", id, b.Status, status)
	s.publish(ctx, events.New(events.BookingStatusChanged, map[string]interface{}{
		"bookingId": id,
		"from":      b.Status,
		"status":    status,
	}, audience...))
	return res, nil
}

func (s *Service) releaseDecorator(ctx context.Context, decoratorID, bookingID int64) error {
	open, err := s.bookings.CountOpenForDecorator(ctx, decoratorID, bookingID)
	if err != nil {
		return err
	}
	if open > 0 {
		return nil
	}
	_, err = s.decorators.SetWorkStatus(ctx, decoratorID, domain.WorkAvailable)
	return err
}

// Delete removes the booking only; payments referencing it are kept.
func (s *Service) Delete(ctx context.Context, caller Caller, id int64) (*domain.WriteResult, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.owns(b.CustomerEmail) {
		return nil, ErrForbidden
	}

	rows, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.BookingDeleted, map[string]interface{}{"bookingId": id}, b.CustomerEmail))
	return domain.Deleted(rows), nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.loggerf("level=warn msg=event publish failed type=%s err=%v", ev.Type, err)
	}
}
