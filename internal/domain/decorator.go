package domain

import (
	"fmt"
	"time"
)

type DecoratorStatus string

const (
	DecoratorPending   DecoratorStatus = "pending"
	DecoratorApproved  DecoratorStatus = "approved"
	DecoratorCancelled DecoratorStatus = "cancelled"
	DecoratorRemoved   DecoratorStatus = "removed"
)

// ParseDecoratorStatus accepts only the moderation statuses an admin may set.
func ParseDecoratorStatus(s string) (DecoratorStatus, error) {
	switch DecoratorStatus(s) {
	case DecoratorPending, DecoratorApproved, DecoratorCancelled, DecoratorRemoved:
		return DecoratorStatus(s), nil
	default:
		return "", fmt.Errorf("unknown decorator status %q", s)
	}
}

type WorkStatus string

const (
	WorkAvailable WorkStatus = "available"
	WorkAssigned  WorkStatus = "assigned"
)

type Decorator struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(255)" json:"name"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Phone        string          `gorm:"type:varchar(50)" json:"phone,omitempty"`
	PhotoURL     string          `gorm:"type:text" json:"photoURL,omitempty"`
	Specialities []string        `gorm:"type:text;serializer:json" json:"specialities"`
	Experience   string          `gorm:"type:text" json:"experience,omitempty"`
	Status       DecoratorStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	WorkStatus   WorkStatus      `gorm:"type:varchar(20);default:'available';index" json:"workStatus"`
	AppliedAt    time.Time       `gorm:"column:applied_at;index" json:"applied_at"`
}

func (Decorator) TableName() string { return "decorators" }
