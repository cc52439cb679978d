package repository

import (
	"context"

	"styledecor/internal/database"
	"styledecor/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	p.CustomerEmail = normalizeEmail(p.CustomerEmail)
	return database.Conn(ctx, r.db).Create(p).Error
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := database.Conn(ctx, r.db).Where("transaction_id = ?", transactionID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByCustomer(ctx context.Context, email string) ([]domain.Payment, error) {
	out := make([]domain.Payment, 0)
	err := database.Conn(ctx, r.db).
		Where("customer_email = ?", normalizeEmail(email)).
		Order("paid_at DESC").
		Find(&out).Error
	return out, err
}
