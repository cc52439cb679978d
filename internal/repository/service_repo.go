package repository

import (
	"context"

	"styledecor/internal/database"
	"styledecor/internal/domain"

	"gorm.io/gorm"
)

type ServiceFilters struct {
	SearchText string
	Category   string
	MinCost    *float64
	MaxCost    *float64
	Limit      int
}

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// List returns services matching the filters in insertion order.
func (r *ServiceRepository) List(ctx context.Context, f ServiceFilters) ([]domain.Service, error) {
	q := database.Conn(ctx, r.db).Model(&domain.Service{})

	if f.SearchText != "" {
		q = q.Where(`LOWER(service_name) LIKE ? ESCAPE '\'`, likeContains(f.SearchText))
	}
	if f.Category != "" {
		q = q.Where("service_category = ?", f.Category)
	}
	if f.MinCost != nil {
		q = q.Where("cost >= ?", *f.MinCost)
	}
	if f.MaxCost != nil {
		q = q.Where("cost <= ?", *f.MaxCost)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	services := make([]domain.Service, 0)
	err := q.Order("id ASC").Find(&services).Error
	return services, err
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := database.Conn(ctx, r.db).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	return database.Conn(ctx, r.db).Create(s).Error
}

// Update writes only the given columns.
func (r *ServiceRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	tx := database.Conn(ctx, r.db).
		Model(&domain.Service{}).
		Where("id = ?", id).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx := database.Conn(ctx, r.db).Delete(&domain.Service{}, id)
	return tx.RowsAffected, tx.Error
}
