package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"styledecor/internal/database"
	"styledecor/internal/domain"
	"styledecor/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ==================== MOCKS ==================== */

type MockBookingStats struct {
	mock.Mock
}

func (m *MockBookingStats) TotalIncome(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBookingStats) CountByService(ctx context.Context) ([]repository.ServiceCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ServiceCount), args.Error(1)
}

func (m *MockBookingStats) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type fixedFeed int

func (f fixedFeed) OnlineCount() int { return int(f) }

/* ==================== TESTS ==================== */

func TestAnalytics_CombinesQueries(t *testing.T) {
	ctx := context.Background()
	stats := new(MockBookingStats)
	stats.On("TotalIncome", ctx).Return(350.5, nil)
	stats.On("CountByService", ctx).Return([]repository.ServiceCount{{ServiceName: "Wedding", Count: 3}}, nil)
	stats.On("Count", ctx).Return(int64(4), nil)

	out, err := NewService(stats, fixedFeed(2)).Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 350.5, out.TotalIncome)
	assert.Equal(t, int64(4), out.TotalBookings)
	assert.Equal(t, 2, out.OnlineUsers)
	require.Len(t, out.CountByService, 1)
	stats.AssertExpectations(t)
}

func TestAnalytics_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	stats := new(MockBookingStats)
	stats.On("TotalIncome", ctx).Return(0.0, nil)
	stats.On("CountByService", ctx).Return(nil, errors.New("db down"))

	_, err := NewService(stats, nil).Analytics(ctx)
	assert.ErrorContains(t, err, "count by service")
	stats.AssertNotCalled(t, "Count", ctx)
}

func TestHandler_AnalyticsOverStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	repo := repository.NewBookingRepository(db)
	ctx := context.Background()

	for i, slot := range []struct {
		service string
		status  domain.PaymentStatus
		cost    float64
	}{
		{"Wedding", domain.PaymentPaid, 200},
		{"Wedding", domain.PaymentUnpaid, 150},
		{"Birthday", domain.PaymentPaid, 50},
	} {
		require.NoError(t, repo.Create(ctx, &domain.Booking{
			CustomerEmail: "ann@test.com",
			ServiceID:     int64(i + 1),
			ServiceName:   slot.service,
			Date:          "2025-01-10",
			Time:          "10:00",
			TotalCost:     slot.cost,
			PaymentStatus: slot.status,
			OrderedAt:     time.Now(),
		}))
	}

	router := gin.New()
	NewHandler(NewService(repo, nil)).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/analytics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalIncome":250`)
	assert.Contains(t, w.Body.String(), `"totalBookings":3`)
	assert.Contains(t, w.Body.String(), `{"serviceName":"Wedding","count":2}`)
}
