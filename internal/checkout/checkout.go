package checkout

import (
	"context"
	"errors"
)

// SessionIDPlaceholder is replaced by the provider's session id inside SuccessURL.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrNotConfigured   = errors.New("checkout provider not configured")
)

type PaymentStatus string

const (
	StatusPaid   PaymentStatus = "paid"
	StatusUnpaid PaymentStatus = "unpaid"
)

// SessionRequest describes a single-line-item hosted checkout.
type SessionRequest struct {
	AmountMinor   int64
	Currency      string
	ProductName   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Session is the provider's view of a checkout, both at creation and after completion.
type Session struct {
	ID            string
	URL           string
	PaymentStatus PaymentStatus
	// TransactionID identifies the captured payment; empty until paid.
	TransactionID string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
}

func (s *Session) Paid() bool {
	return s != nil && s.PaymentStatus == StatusPaid
}

// Provider is the hosted checkout the storefront redirects customers to.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}

// Unconfigured answers every call with ErrNotConfigured so the API can start without keys.
type Unconfigured struct{}

func (Unconfigured) CreateSession(context.Context, SessionRequest) (*Session, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) RetrieveSession(context.Context, string) (*Session, error) {
	return nil, ErrNotConfigured
}
