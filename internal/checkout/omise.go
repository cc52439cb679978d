package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

const chargeSuccessful = "successful"

// OmiseProvider runs checkouts as redirect-flow Omise charges. The charge id is both
// the session id and the transaction id.
type OmiseProvider struct {
	client     *omise.Client
	sourceType string
}

func NewOmiseProvider(publicKey, secretKey, sourceType string) (*OmiseProvider, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	return &OmiseProvider{client: c, sourceType: sourceType}, nil
}

func (p *OmiseProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.AmountMinor <= 0 || req.Currency == "" {
		return nil, errors.New("omise: amount and currency are required")
	}

	src := &omise.Source{}
	if err := p.client.Do(src, &operations.CreateSource{
		Type:     p.sourceType,
		Amount:   req.AmountMinor,
		Currency: req.Currency,
	}); err != nil {
		return nil, fmt.Errorf("omise create source: %w", err)
	}

	ch := &omise.Charge{}
	if err := p.client.Do(ch, &operations.CreateCharge{
		Amount:    req.AmountMinor,
		Currency:  req.Currency,
		Source:    src.ID,
		ReturnURI: returnURI(req.SuccessURL),
	}); err != nil {
		return nil, fmt.Errorf("omise create charge: %w", err)
	}

	// The charge description carries the booking reference back to settlement.
	updated := &omise.Charge{}
	if err := p.client.Do(updated, &operations.UpdateCharge{
		ChargeID:    ch.ID,
		Description: encodeReference(req),
	}); err != nil {
		return nil, fmt.Errorf("omise describe charge %s: %w", ch.ID, err)
	}
	if updated.AuthorizeURI == "" {
		updated.AuthorizeURI = ch.AuthorizeURI
	}

	return chargeToSession(updated), nil
}

func (p *OmiseProvider) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := &omise.Charge{}
	if err := p.client.Do(ch, &operations.RetrieveCharge{ChargeID: id}); err != nil {
		var oerr *omise.Error
		if errors.As(err, &oerr) && oerr.Code == "not_found" {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("omise retrieve charge: %w", err)
	}
	return chargeToSession(ch), nil
}

func chargeToSession(ch *omise.Charge) *Session {
	s := &Session{
		ID:            ch.ID,
		URL:           ch.AuthorizeURI,
		PaymentStatus: StatusUnpaid,
		AmountTotal:   ch.Amount,
		Currency:      strings.ToLower(ch.Currency),
		Metadata:      decodeReference(ch.Description),
	}
	s.CustomerEmail = s.Metadata["customerEmail"]

	if string(ch.Status) == chargeSuccessful {
		s.PaymentStatus = StatusPaid
		s.TransactionID = ch.ID
	}
	return s
}

func encodeReference(req SessionRequest) string {
	v := url.Values{}
	for k, val := range req.Metadata {
		v.Set(k, val)
	}
	v.Set("productName", req.ProductName)
	v.Set("customerEmail", req.CustomerEmail)
	v.Set("cancelUrl", req.CancelURL)
	return v.Encode()
}

// decodeReference is lenient: a description written outside this service yields an empty map.
func decodeReference(desc *string) map[string]string {
	out := map[string]string{}
	if desc == nil {
		return out
	}
	v, err := url.ParseQuery(*desc)
	if err != nil {
		return out
	}
	for k := range v {
		out[k] = v.Get(k)
	}
	return out
}

// returnURI drops the session placeholder: Omise does not expand it, and the
// storefront already holds the session id returned at creation.
func returnURI(successURL string) string {
	u := strings.ReplaceAll(successURL, "session_id="+SessionIDPlaceholder, "")
	u = strings.ReplaceAll(u, SessionIDPlaceholder, "")
	return strings.TrimRight(u, "?&")
}
