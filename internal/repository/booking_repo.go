package repository

import (
	"context"

	"styledecor/internal/database"
	"styledecor/internal/domain"

	"gorm.io/gorm"
)

type BookingFilters struct {
	CustomerEmail  string
	DecoratorEmail string
	Status         string
	PaymentStatus  domain.PaymentStatus
	Date           string
	// ByTimeAsc orders by the booked time slot instead of newest order first.
	ByTimeAsc bool
}

type EarningsRow struct {
	Total float64
	Count int64
}

type ServiceCount struct {
	ServiceName string `json:"serviceName"`
	Count       int64  `json:"count"`
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	b.CustomerEmail = normalizeEmail(b.CustomerEmail)
	return database.Conn(ctx, r.db).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := database.Conn(ctx, r.db).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ExistsSlot reports whether the customer already booked this service at the same date and time.
func (r *BookingRepository) ExistsSlot(ctx context.Context, customerEmail string, serviceID int64, date, tm string) (bool, error) {
	var cnt int64
	err := database.Conn(ctx, r.db).
		Model(&domain.Booking{}).
		Where("customer_email = ? AND service_id = ? AND slot_date = ? AND slot_time = ?",
			normalizeEmail(customerEmail), serviceID, date, tm).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilters) ([]domain.Booking, error) {
	q := database.Conn(ctx, r.db).Model(&domain.Booking{})

	if f.CustomerEmail != "" {
		q = q.Where("customer_email = ?", normalizeEmail(f.CustomerEmail))
	}
	if f.DecoratorEmail != "" {
		q = q.Where("decorator_email = ?", normalizeEmail(f.DecoratorEmail))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.Date != "" {
		q = q.Where("slot_date = ?", f.Date)
	}

	if f.ByTimeAsc {
		q = q.Order("slot_time ASC")
	} else {
		q = q.Order("ordered_at DESC")
	}

	out := make([]domain.Booking, 0)
	err := q.Find(&out).Error
	return out, err
}

func (r *BookingRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	tx := database.Conn(ctx, r.db).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

// MarkPaid flips an unpaid booking to paid; zero rows means it was already paid or missing.
func (r *BookingRepository) MarkPaid(ctx context.Context, id int64, trackingID, transactionID string) (int64, error) {
	tx := database.Conn(ctx, r.db).
		Model(&domain.Booking{}).
		Where("id = ? AND payment_status <> ?", id, domain.PaymentPaid).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentPaid,
			"tracking_id":    trackingID,
			"transaction_id": transactionID,
		})
	return tx.RowsAffected, tx.Error
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx := database.Conn(ctx, r.db).Delete(&domain.Booking{}, id)
	return tx.RowsAffected, tx.Error
}

// CountOpenForDecorator counts non-terminal bookings linked to the decorator, except one.
func (r *BookingRepository) CountOpenForDecorator(ctx context.Context, decoratorID, exceptBookingID int64) (int64, error) {
	var cnt int64
	err := database.Conn(ctx, r.db).
		Model(&domain.Booking{}).
		Where("decorator_id = ? AND id <> ?", decoratorID, exceptBookingID).
		Where("status NOT IN ?", []string{domain.BookingCompleted, domain.BookingCancelled}).
		Count(&cnt).Error
	return cnt, err
}

// Earnings sums completed, paid bookings of one decorator.
func (r *BookingRepository) Earnings(ctx context.Context, decoratorEmail string) (EarningsRow, error) {
	var row EarningsRow
	err := database.Conn(ctx, r.db).
		Model(&domain.Booking{}).
		Select("COALESCE(SUM(total_cost), 0) AS total, COUNT(*) AS count").
		Where("decorator_email = ? AND payment_status = ? AND status = ?",
			normalizeEmail(decoratorEmail), domain.PaymentPaid, domain.BookingCompleted).
		Scan(&row).Error
	return row, err
}

func (r *BookingRepository) TotalIncome(ctx context.Context) (float64, error) {
	var total float64
	err := database.Conn(ctx, r.db).
		Model(&domain.Booking{}).
		Select("COALESCE(SUM(total_cost), 0)").
		Where("payment_status = ?", domain.PaymentPaid).
		Scan(&total).Error
	return total, err
}

func (r *BookingRepository) CountByService(ctx context.Context) ([]ServiceCount, error) {
	out := make([]ServiceCount, 0)
	err := database.Conn(ctx, r.db).
		Model(&domain.Booking{}).
		Select("service_name, COUNT(*) AS count").
		Group("service_name").
		Order("count DESC").
		Scan(&out).Error
	return out, err
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := database.Conn(ctx, r.db).Model(&domain.Booking{}).Count(&cnt).Error
	return cnt, err
}
