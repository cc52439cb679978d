package payment

import (
	"context"

	"styledecor/internal/checkout"
	"styledecor/internal/domain"
	"styledecor/internal/events"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	ListByCustomer(ctx context.Context, email string) ([]domain.Payment, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkPaid(ctx context.Context, id int64, trackingID, transactionID string) (int64, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker serialises settlements of one session across processes.
type Locker interface {
	Acquire(ctx context.Context, name string) (func(context.Context) error, error)
}

type Provider = checkout.Provider

type EventPublisher = events.Publisher
