package repository

import (
	"context"

	"styledecor/internal/database"
	"styledecor/internal/domain"

	"gorm.io/gorm"
)

type DecoratorRepository struct {
	db *gorm.DB
}

func NewDecoratorRepository(db *gorm.DB) *DecoratorRepository {
	return &DecoratorRepository{db: db}
}

func (r *DecoratorRepository) Create(ctx context.Context, d *domain.Decorator) error {
	d.Email = normalizeEmail(d.Email)
	return database.Conn(ctx, r.db).Create(d).Error
}

func (r *DecoratorRepository) GetByID(ctx context.Context, id int64) (*domain.Decorator, error) {
	var d domain.Decorator
	if err := database.Conn(ctx, r.db).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DecoratorRepository) GetByEmail(ctx context.Context, email string) (*domain.Decorator, error) {
	var d domain.Decorator
	err := database.Conn(ctx, r.db).
		Where("email = ?", normalizeEmail(email)).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns applications newest first, optionally narrowed to one status.
func (r *DecoratorRepository) List(ctx context.Context, status string) ([]domain.Decorator, error) {
	q := database.Conn(ctx, r.db).Model(&domain.Decorator{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := make([]domain.Decorator, 0)
	err := q.Order("applied_at DESC").Find(&out).Error
	return out, err
}

// Earliest returns the longest-standing decorators.
func (r *DecoratorRepository) Earliest(ctx context.Context, limit int) ([]domain.Decorator, error) {
	out := make([]domain.Decorator, 0)
	err := database.Conn(ctx, r.db).
		Order("applied_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Available returns approved decorators free for assignment; speciality is a case-insensitive substring.
func (r *DecoratorRepository) Available(ctx context.Context, speciality string) ([]domain.Decorator, error) {
	q := database.Conn(ctx, r.db).
		Where("status = ? AND work_status = ?", domain.DecoratorApproved, domain.WorkAvailable)
	if speciality != "" {
		q = q.Where(`LOWER(specialities) LIKE ? ESCAPE '\'`, likeContains(speciality))
	}
	out := make([]domain.Decorator, 0)
	err := q.Order("applied_at ASC").Find(&out).Error
	return out, err
}

func (r *DecoratorRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	tx := database.Conn(ctx, r.db).
		Model(&domain.Decorator{}).
		Where("id = ?", id).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *DecoratorRepository) SetWorkStatus(ctx context.Context, id int64, ws domain.WorkStatus) (int64, error) {
	return r.Update(ctx, id, map[string]interface{}{"work_status": ws})
}

func (r *DecoratorRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx := database.Conn(ctx, r.db).Delete(&domain.Decorator{}, id)
	return tx.RowsAffected, tx.Error
}
