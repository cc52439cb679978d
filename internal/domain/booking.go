package domain

import "time"

// Booking statuses are free-form; these are the ones the backend itself writes or inspects.
const (
	BookingPending           = "pending"
	BookingDecoratorAssigned = "decorator assigned"
	BookingCompleted         = "completed"
	BookingCancelled         = "cancelled"
)

// IsTerminalBookingStatus reports whether a booking no longer occupies its decorator.
func IsTerminalBookingStatus(status string) bool {
	return status == BookingCompleted || status == BookingCancelled
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Booking struct {
	ID             int64         `gorm:"primaryKey" json:"id"`
	CustomerEmail  string        `gorm:"type:varchar(255);not null;uniqueIndex:idx_booking_slot;index" json:"customerEmail"`
	CustomerName   string        `gorm:"type:varchar(255)" json:"customerName,omitempty"`
	ServiceID      int64         `gorm:"not null;uniqueIndex:idx_booking_slot" json:"serviceId"`
	ServiceName    string        `gorm:"type:varchar(255);index" json:"serviceName"`
	ServiceType    string        `gorm:"type:varchar(100)" json:"serviceType,omitempty"`
	DecoratorID    *int64        `gorm:"index" json:"decoratorId"`
	DecoratorName  *string       `gorm:"type:varchar(255)" json:"decoratorName"`
	DecoratorEmail *string       `gorm:"type:varchar(255);index" json:"decoratorEmail"`
	Date           string        `gorm:"column:slot_date;type:varchar(10);not null;uniqueIndex:idx_booking_slot" json:"date"`
	Time           string        `gorm:"column:slot_time;type:varchar(10);not null;uniqueIndex:idx_booking_slot" json:"time"`
	Location       string        `gorm:"type:text" json:"location"`
	Notes          string        `gorm:"type:text" json:"notes,omitempty"`
	TotalUnit      float64       `json:"totalUnit"`
	TotalCost      float64       `json:"totalCost"`
	Status         string        `gorm:"type:varchar(50);default:'pending';index" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);default:'unpaid';index" json:"paymentStatus"`
	TrackingID     *string       `gorm:"type:varchar(32)" json:"trackingId"`
	TransactionID  *string       `gorm:"type:varchar(255)" json:"transactionId,omitempty"`
	OrderedAt      time.Time     `gorm:"index" json:"orderedAt"`
}

func (Booking) TableName() string { return "bookings" }
