package admin

import (
	"context"
	"fmt"
)

type Service struct {
	bookings BookingStats
	feed     LiveFeed
}

// NewService builds the admin dashboard service. feed may be nil.
func NewService(bookings BookingStats, feed LiveFeed) *Service {
	return &Service{bookings: bookings, feed: feed}
}

// Analytics gathers the dashboard figures. Income counts paid bookings only.
func (s *Service) Analytics(ctx context.Context) (*AnalyticsResponse, error) {
	income, err := s.bookings.TotalIncome(ctx)
	if err != nil {
		return nil, fmt.Errorf("total income: %w", err)
	}
	perService, err := s.bookings.CountByService(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by service: %w", err)
	}
	total, err := s.bookings.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	out := &AnalyticsResponse{
		TotalIncome:    income,
		CountByService: perService,
		TotalBookings:  total,
	}
	if s.feed != nil {
		out.OnlineUsers = s.feed.OnlineCount()
	}
	return out, nil
}
