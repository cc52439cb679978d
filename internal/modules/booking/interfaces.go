package booking

import (
	"context"

	"styledecor/internal/domain"
	"styledecor/internal/events"
	"styledecor/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ExistsSlot(ctx context.Context, customerEmail string, serviceID int64, date, tm string) (bool, error)
	List(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	CountOpenForDecorator(ctx context.Context, decoratorID, exceptBookingID int64) (int64, error)
	Earnings(ctx context.Context, decoratorEmail string) (repository.EarningsRow, error)
}

type DecoratorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Decorator, error)
	SetWorkStatus(ctx context.Context, id int64, ws domain.WorkStatus) (int64, error)
}

type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher = events.Publisher
