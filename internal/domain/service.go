package domain

import "time"

// Service is a catalogue item a customer can book.
type Service struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:service_name;type:varchar(255);not null;index" json:"service_name" validate:"required"`
	Category    string    `gorm:"column:service_category;type:varchar(100);index" json:"service_category" validate:"required"`
	Cost        float64   `gorm:"not null" json:"cost" validate:"gte=0"`
	Unit        string    `gorm:"type:varchar(50)" json:"unit,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
	CreatedBy   string    `gorm:"type:varchar(255)" json:"createdByEmail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Service) TableName() string { return "services" }
