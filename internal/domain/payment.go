package domain

import "time"

// Payment is the settlement receipt for one checkout transaction. Rows are insert-only.
type Payment struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	TransactionID string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"transactionId"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"type:varchar(10)" json:"currency"`
	CustomerEmail string        `gorm:"type:varchar(255);index;not null" json:"customerEmail"`
	BookingID     int64         `gorm:"index;not null" json:"bookingId"`
	ServiceName   string        `gorm:"type:varchar(255)" json:"serviceName"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20)" json:"paymentStatus"`
	TrackingID    string        `gorm:"type:varchar(32)" json:"trackingId"`
	PaidAt        time.Time     `gorm:"index" json:"paidAt"`
}

func (Payment) TableName() string { return "payments" }
