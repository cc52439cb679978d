package repository

import (
	"context"
	"strings"

	"styledecor/internal/database"
	"styledecor/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	return database.Conn(ctx, r.db).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := database.Conn(ctx, r.db).
		Where("email = ?", normalizeEmail(email)).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

// UpdateRole sets the role of the user with the given email and reports rows touched.
func (r *UserRepository) UpdateRole(ctx context.Context, email string, role domain.UserRole) (int64, error) {
	tx := database.Conn(ctx, r.db).
		Model(&domain.User{}).
		Where("email = ?", normalizeEmail(email)).
		Update("role", role)
	return tx.RowsAffected, tx.Error
}
