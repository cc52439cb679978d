package payment

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrForbidden            = errors.New("forbidden")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrSessionNotFound      = errors.New("checkout session not found")
	ErrBookingAlreadyPaid   = errors.New("booking already paid")
	ErrProvider             = errors.New("checkout provider error")
	ErrSettlementInProgress = errors.New("settlement in progress")

	errRaceLost = errors.New("payment recorded concurrently")
)
