package user

import (
	"context"
	"strings"
	"time"

	"styledecor/internal/domain"
	"styledecor/internal/repository"
)

type Service struct {
	users   UserRepository
	now     func() time.Time
	loggerf func(format string, args ...interface{})
}

func NewService(users UserRepository, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{users: users, now: time.Now, loggerf: loggerf}
}

// Register stores a new user with the default role. A second registration of the
// same email is a no-op reported as ErrUserExists.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.WriteResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !repository.IsNotFound(err):
		return nil, err
	}

	u := &domain.User{
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		PhotoURL:  req.PhotoURL,
		Role:      domain.RoleUser,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.loggerf("level=info msg=user registered email=%s id=%d", u.Email, u.ID)
	return domain.Inserted(u.ID), nil
}

// Role returns the stored role, defaulting to "user" for unknown emails.
func (s *Service) Role(ctx context.Context, email string) (domain.UserRole, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.RoleUser, nil
		}
		return "", err
	}
	if u.Role == "" {
		return domain.RoleUser, nil
	}
	return u.Role, nil
}
