package admin

import (
	"context"

	"styledecor/internal/repository"
)

type BookingStats interface {
	TotalIncome(ctx context.Context) (float64, error)
	CountByService(ctx context.Context) ([]repository.ServiceCount, error)
	Count(ctx context.Context) (int64, error)
}

// LiveFeed reports how many users hold an open booking feed.
type LiveFeed interface {
	OnlineCount() int
}
