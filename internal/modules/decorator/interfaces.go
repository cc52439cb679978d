package decorator

import (
	"context"

	"styledecor/internal/domain"
	"styledecor/internal/events"
)

type DecoratorRepository interface {
	Create(ctx context.Context, d *domain.Decorator) error
	GetByID(ctx context.Context, id int64) (*domain.Decorator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Decorator, error)
	List(ctx context.Context, status string) ([]domain.Decorator, error)
	Earliest(ctx context.Context, limit int) ([]domain.Decorator, error)
	Available(ctx context.Context, speciality string) ([]domain.Decorator, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type UserRoleWriter interface {
	UpdateRole(ctx context.Context, email string, role domain.UserRole) (int64, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher = events.Publisher
