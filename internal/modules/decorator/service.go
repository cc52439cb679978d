package decorator

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

const bestLimit = 6

type Service struct {
	decorators DecoratorRepository
	users      UserRoleWriter
	tx         Transactor
	events     EventPublisher
	now        func() time.Time
	loggerf    func(format string, args ...interface{})
}

func NewService(
	decorators DecoratorRepository,
	users UserRoleWriter,
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
		decorators: decorators,
		users:      users,
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

// Apply files a pending application for the caller. Only one application per email exists.
func (s *Service) Apply(ctx context.Context, callerEmail string, isAdmin bool, req ApplyRequest) (*domain.WriteResult, error) {
	req.Specialities = utils.UniqueStrings(req.Specialities)
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}
	if !isAdmin && !utils.SameEmail(req.Email, callerEmail) {
		return nil, ErrForbidden
	}

	email := utils.NormalizeEmail(req.Email)
	_, err := s.decorators.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrAlreadyApplied
	case !repository.IsNotFound(err):
		return nil, err
	}

	d := &domain.Decorator{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        req.Phone,
		PhotoURL:     req.PhotoURL,
		Specialities: req.Specialities,
		Experience:   req.Experience,
		Status:       domain.DecoratorPending,
		WorkStatus:   domain.WorkAvailable,
		AppliedAt:    s.now().UTC(),
	}
	if err := s.decorators.Create(ctx, d); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	s.loggerf("level=info msg=decorator applied email=%s id=%d", d.Email, d.ID)
	s.publish(ctx, events.New(events.DecoratorApplied, d, d.Email))
	return domain.Inserted(d.ID), nil
}

func (s *Service) List(ctx context.Context, status string) ([]domain.Decorator, error) {
	if status != "" {
		if _, err := domain.ParseDecoratorStatus(status); err != nil {
			return nil, ErrInvalidStatus
		}
	}
	return s.decorators.List(ctx, status)
}

func (s *Service) Best(ctx context.Context) ([]domain.Decorator, error) {
	return s.decorators.Earliest(ctx, bestLimit)
}

func (s *Service) Available(ctx context.Context, speciality string) ([]domain.Decorator, error) {
	return s.decorators.Available(ctx, strings.TrimSpace(speciality))
}

// SetStatus applies an admin moderation decision. Role changes commit together with
// the decorator record.
func (s *Service) SetStatus(ctx context.Context, id int64, rawStatus string) (*domain.WriteResult, error) {
	status, err := domain.ParseDecoratorStatus(strings.ToLower(strings.TrimSpace(rawStatus)))
	if err != nil {
		return nil, ErrInvalidStatus
	}

	d, err := s.decorators.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var res *domain.WriteResult
	err = s.inTx(ctx, func(ctx context.Context) error {
		switch status {
		case domain.DecoratorRemoved:
			rows, err := s.decorators.Delete(ctx, id)
			if err != nil {
				return err
			}
			if _, err := s.users.UpdateRole(ctx, d.Email, domain.RoleUser); err != nil {
				return err
			}
			res = domain.Deleted(rows)
			return nil

		case domain.DecoratorApproved:
			rows, err := s.decorators.Update(ctx, id, map[string]interface{}{
				"status":      status,
				"work_status": domain.WorkAvailable,
			})
			if err != nil {
				return err
			}
			if _, err := s.users.UpdateRole(ctx, d.Email, domain.RoleDecorator); err != nil {
				return err
			}
			res = domain.Updated(rows)
			return nil

		case domain.DecoratorPending:
			rows, err := s.decorators.Update(ctx, id, map[string]interface{}{
				"status":      status,
				"work_status": domain.WorkAvailable,
			})
			if err != nil {
				return err
			}
			res = domain.Updated(rows)
			return nil

		default:
			rows, err := s.decorators.Update(ctx, id, map[string]interface{}{"status": status})
			if err != nil {
				return err
			}
			res = domain.Updated(rows)
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=decorator moderated id=%d email=%s status=%s", id, d.Email, status)
	s.publish(ctx, events.New(events.DecoratorModerated, map[string]interface{}{
		"decoratorId": id,
		"status":      status,
	}, d.Email))
	return res, nil
}

// Remove is the same decision as SetStatus(id, "removed").
func (s *Service) Remove(ctx context.Context, id int64) (*domain.WriteResult, error) {
	return s.SetStatus(ctx, id, string(domain.DecoratorRemoved))
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.loggerf("level=warn msg=event publish failed type=%s err=%v", ev.Type, err)
	}
}
