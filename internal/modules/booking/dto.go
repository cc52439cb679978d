package booking

type CreateBookingRequest struct {
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
	CustomerName  string  `json:"customerName"`
	ServiceID     int64   `json:"serviceId" validate:"required,gt=0"`
	ServiceName   string  `json:"serviceName"`
	ServiceType   string  `json:"serviceType"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string  `json:"time" validate:"required,max=10"`
	Location      string  `json:"location"`
	Notes         string  `json:"notes"`
	TotalUnit     float64 `json:"totalUnit" validate:"gte=0"`
	TotalCost     float64 `json:"totalCost" validate:"gte=0"`
}

// EditBookingRequest only writes the fields that are present.
type EditBookingRequest struct {
	ServiceType *string  `json:"serviceType"`
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time        *string  `json:"time" validate:"omitempty,min=1,max=10"`
	Notes       *string  `json:"notes"`
	Location    *string  `json:"location"`
	TotalUnit   *float64 `json:"totalUnit" validate:"omitempty,gte=0"`
	TotalCost   *float64 `json:"totalCost" validate:"omitempty,gte=0"`
}

type AssignDecoratorRequest struct {
	DecoratorID int64 `json:"decoratorId" binding:"required,gt=0"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type EarningsSummary struct {
	DecoratorEmail string  `json:"decoratorEmail"`
	TotalEarnings  float64 `json:"totalEarnings"`
	CompletedCount int64   `json:"completedCount"`
}
