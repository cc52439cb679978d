// Package checkouttest provides an in-memory checkout.Provider for tests.
package checkouttest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"styledecor/internal/checkout"
)

type Provider struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*checkout.Session

	// Requests records every CreateSession call in order.
	Requests []checkout.SessionRequest
	// Err, when set, is returned by every call.
	Err error
}

func New() *Provider {
	return &Provider{sessions: map[string]*checkout.Session{}}
}

func (p *Provider) CreateSession(_ context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}

	p.seq++
	id := fmt.Sprintf("cs_test_%d", p.seq)
	meta := make(map[string]string, len(req.Metadata))
	for k, v := range req.Metadata {
		meta[k] = v
	}
	s := &checkout.Session{
		ID:            id,
		URL:           "https://checkout.test/pay/" + id + "?next=" + strings.ReplaceAll(req.SuccessURL, checkout.SessionIDPlaceholder, id),
		PaymentStatus: checkout.StatusUnpaid,
		AmountTotal:   req.AmountMinor,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		Metadata:      meta,
	}
	p.sessions[id] = s
	p.Requests = append(p.Requests, req)

	out := *s
	return &out, nil
}

func (p *Provider) RetrieveSession(_ context.Context, id string) (*checkout.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	s, ok := p.sessions[id]
	if !ok {
		return nil, checkout.ErrSessionNotFound
	}
	out := *s
	return &out, nil
}

// Complete marks the session paid under the given transaction id.
func (p *Provider) Complete(id, transactionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[id]; ok {
		s.PaymentStatus = checkout.StatusPaid
		s.TransactionID = transactionID
	}
}

// Put registers a session directly, bypassing CreateSession.
func (p *Provider) Put(s *checkout.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[s.ID] = s
}
