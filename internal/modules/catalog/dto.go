package catalog

type CreateServiceRequest struct {
	Name        string  `json:"service_name" validate:"required"`
	Category    string  `json:"service_category" validate:"required"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Image       string  `json:"image" validate:"omitempty,url"`
}

// UpdateServiceRequest only writes the fields that are present.
type UpdateServiceRequest struct {
	Name        *string  `json:"service_name" validate:"omitempty,min=1"`
	Category    *string  `json:"service_category" validate:"omitempty,min=1"`
	Cost        *float64 `json:"cost" validate:"omitempty,gte=0"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
	Image       *string  `json:"image" validate:"omitempty,url"`
}

type SearchQuery struct {
	SearchText  string
	ServiceType string
	MinBudget   *float64
	MaxBudget   *float64
}
