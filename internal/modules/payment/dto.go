package payment

import "styledecor/internal/domain"

type CheckoutRequest struct {
	ServiceCost   float64 `json:"serviceCost" validate:"gt=0"`
	ServiceName   string  `json:"serviceName" validate:"required"`
	BookingID     int64   `json:"bookingId" validate:"required,gt=0"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
}

type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// SettlementResult is one of three outcomes: already settled, settled now, or not paid.
type SettlementResult struct {
	AlreadyPaid   bool
	Paid          bool
	TrackingID    string
	TransactionID string
	BookingResult *domain.WriteResult
	PaymentResult *domain.WriteResult
}

type ErrorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
