package catalog

import (
	"context"

	"styledecor/internal/domain"
	"styledecor/internal/repository"
)

type ServiceRepository interface {
	List(ctx context.Context, f repository.ServiceFilters) ([]domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
