package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/repository"
)

func newTestAnalyticsService(now time.Time) (*AnalyticsService, *mockAnalyticsRepository) {
	repo := new(mockAnalyticsRepository)
	svc := NewAnalyticsService(repo, newTestLogger())
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestMonthlySales_TwelveZeroFilledMonths(t *testing.T) {
	// Fixed "now" so the window is Aug 2025 through Jul 2026.
	now := time.Date(2026, time.July, 15, 10, 30, 0, 0, time.UTC)
	svc, repo := newTestAnalyticsService(now)
	ctx := context.Background()

	expectedStart := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	repo.On("MonthlySales", ctx, expectedStart).Return([]repository.MonthTotal{
		{Year: 2025, Month: time.October, Total: 5000},
		{Year: 2026, Month: time.July, Total: 1200},
	}, nil)

	sales, err := svc.MonthlySales(ctx)

	require.NoError(t, err)
	require.Len(t, sales, 12)

	assert.Equal(t, "Aug", sales[0].Name)
	assert.Equal(t, int64(0), sales[0].Total)
	assert.Equal(t, "Oct", sales[2].Name)
	assert.Equal(t, int64(5000), sales[2].Total)
	assert.Equal(t, "Jul", sales[11].Name)
	assert.Equal(t, int64(1200), sales[11].Total)

	// Every other month is present with a zero total.
	for i, s := range sales {
		if i != 2 && i != 11 {
			assert.Equal(t, int64(0), s.Total, "month %s", s.Name)
		}
	}

	repo.AssertExpectations(t)
}

func TestMonthlySales_YearBoundary(t *testing.T) {
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	svc, repo := newTestAnalyticsService(now)
	ctx := context.Background()

	expectedStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	repo.On("MonthlySales", ctx, expectedStart).Return([]repository.MonthTotal{}, nil)

	sales, err := svc.MonthlySales(ctx)

	require.NoError(t, err)
	require.Len(t, sales, 12)
	assert.Equal(t, "Mar", sales[0].Name)
	assert.Equal(t, "Dec", sales[9].Name)
	assert.Equal(t, "Jan", sales[10].Name)
	assert.Equal(t, "Feb", sales[11].Name)
}

func TestTransactionInfo_AverageRoundedToTwoDecimals(t *testing.T) {
	svc, repo := newTestAnalyticsService(time.Now())
	ctx := context.Background()

	// 1000 / 3 = 333.333... rounds to 333.33.
	repo.On("TransactionTotals", ctx).Return(3, int64(1000), nil)

	info, err := svc.TransactionInfo(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, info.TotalTransactions)
	assert.Equal(t, int64(1000), info.TotalSales)
	assert.Equal(t, 333.33, info.AverageTransactions)
}

func TestTransactionInfo_NoOrders(t *testing.T) {
	svc, repo := newTestAnalyticsService(time.Now())
	ctx := context.Background()

	repo.On("TransactionTotals", ctx).Return(0, int64(0), nil)

	info, err := svc.TransactionInfo(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, info.TotalTransactions)
	assert.Equal(t, int64(0), info.TotalSales)
	assert.Equal(t, 0.0, info.AverageTransactions)
}

func TestOrderInfo_Histogram(t *testing.T) {
	svc, repo := newTestAnalyticsService(time.Now())
	ctx := context.Background()

	repo.On("DeliveryStatusCounts", ctx).Return([]repository.StatusCount{
		{Status: domain.DeliveryProcessing, Count: 4},
		{Status: domain.DeliveryShipped, Count: 2},
		{Status: domain.DeliveryDelivered, Count: 10},
	}, nil)

	info, err := svc.OrderInfo(ctx)

	require.NoError(t, err)
	assert.Equal(t, 16, info.TotalOrders)
	assert.Equal(t, 4, info.Processing)
	assert.Equal(t, 2, info.Shipped)
	assert.Equal(t, 10, info.Delivered)
}

func TestRecentSales_Success(t *testing.T) {
	svc, repo := newTestAnalyticsService(time.Now())
	ctx := context.Background()

	repo.On("RecentOrders", ctx, 8).Return([]domain.RecentSale{
		{OrderID: "order-1", UserName: "Asha", UserEmail: "asha@example.com", TotalPrice: 300},
		{OrderID: "order-2", UserName: "", UserEmail: "", TotalPrice: 450},
	}, nil)

	result, err := svc.RecentSales(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalOrders)
	assert.Equal(t, int64(750), result.TotalPriceOfRecentSales)
	assert.Len(t, result.Orders, 2)
}

func TestRecentSales_LimitClamped(t *testing.T) {
	svc, repo := newTestAnalyticsService(time.Now())
	ctx := context.Background()

	repo.On("RecentOrders", ctx, 50).Return([]domain.RecentSale{}, nil)

	result, err := svc.RecentSales(ctx, 9999)

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalOrders)
	assert.NotNil(t, result.Orders)
	repo.AssertExpectations(t)
}
