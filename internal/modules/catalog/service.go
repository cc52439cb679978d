package catalog

import (
	"context"
	"strings"
	"time"

	"styledecor/internal/domain"
	"styledecor/internal/pkg/validator"
	"styledecor/internal/repository"
)

const featuredLimit = 8

type Service struct {
	services ServiceRepository
	now      func() time.Time
}

func NewService(services ServiceRepository) *Service {
	return &Service{services: services, now: time.Now}
}

func (s *Service) Featured(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx, repository.ServiceFilters{Limit: featuredLimit})
}

func (s *Service) Search(ctx context.Context, q SearchQuery) ([]domain.Service, error) {
	if q.MinBudget != nil && q.MaxBudget != nil && *q.MinBudget > *q.MaxBudget {
		return nil, ErrValidation
	}
	return s.services.List(ctx, repository.ServiceFilters{
		SearchText: strings.TrimSpace(q.SearchText),
		Category:   strings.TrimSpace(q.ServiceType),
		MinCost:    q.MinBudget,
		MaxCost:    q.MaxBudget,
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return svc, err
}

func (s *Service) Create(ctx context.Context, createdBy string, req CreateServiceRequest) (*domain.WriteResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}

	now := s.now().UTC()
	svc := &domain.Service{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Cost:        req.Cost,
		Unit:        req.Unit,
		Description: req.Description,
		Image:       req.Image,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return domain.Inserted(svc.ID), nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateServiceRequest) (*domain.WriteResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["service_name"] = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		updates["service_category"] = strings.TrimSpace(*req.Category)
	}
	if req.Cost != nil {
		updates["cost"] = *req.Cost
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if len(updates) == 0 {
		return nil, ErrValidation
	}
	updates["updated_at"] = s.now().UTC()

	rows, err := s.services.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return domain.Updated(rows), nil
}

func (s *Service) Delete(ctx context.Context, id int64) (*domain.WriteResult, error) {
	rows, err := s.services.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.Deleted(rows), nil
}
