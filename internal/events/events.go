package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	BookingCreated       = "booking.created"
	BookingUpdated       = "booking.updated"
	BookingAssigned      = "booking.assigned"
	BookingStatusChanged = "booking.status_changed"
	BookingDeleted       = "booking.deleted"
	PaymentSettled       = "payment.settled"
	DecoratorApplied     = "decorator.applied"
	DecoratorModerated   = "decorator.moderated"
)

// Event is a notification about a committed change. Audience lists the emails that
// should see it on their live feed.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Audience   []string  `json:"-"`
	Data       any       `json:"data,omitempty"`
}

func New(eventType string, data any, audience ...string) Event {
	aud := make([]string, 0, len(audience))
	for _, a := range audience {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			aud = append(aud, a)
		}
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Audience:   aud,
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
