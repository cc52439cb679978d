package domain

import "time"

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleDecorator UserRole = "decorator"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	PhotoURL  string    `gorm:"type:text" json:"photoURL,omitempty"`
	Role      UserRole  `gorm:"type:varchar(20);default:'user';not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }
