package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/repository"
)

// Default and maximum size of the recent-sales feed.
const (
	defaultRecentSalesLimit = 8
	maxRecentSalesLimit     = 50
)

// AnalyticsService implements the seller dashboard reads. All numbers are
// computed from orders already written; nothing here mutates state.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(analytics repository.AnalyticsRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		analytics: analytics,
		logger:    logger,
		now:       time.Now,
	}
}

// MonthlySales returns exactly twelve entries, one per month, chronological,
// ending with the current month. Months without orders carry a zero total.
func (s *AnalyticsService) MonthlySales(ctx context.Context) ([]domain.MonthlySale, error) {
	now := s.now().UTC()
	// First day of the month eleven months back.
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	totals, err := s.analytics.MonthlySales(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("query monthly sales: %w", err)
	}

	byMonth := make(map[[2]int]int64, len(totals))
	for _, t := range totals {
		byMonth[[2]int{t.Year, int(t.Month)}] = t.Total
	}

	sales := make([]domain.MonthlySale, 0, 12)
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		sales = append(sales, domain.MonthlySale{
			Name:  m.Month().String()[:3],
			Total: byMonth[[2]int{m.Year(), int(m.Month())}],
		})
	}

	return sales, nil
}

// TransactionInfo returns order count, revenue sum and the average order
// value rounded to two decimals. All zeros when no orders exist.
func (s *AnalyticsService) TransactionInfo(ctx context.Context) (*domain.TransactionInfo, error) {
	count, sum, err := s.analytics.TransactionTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("query transaction totals: %w", err)
	}

	info := &domain.TransactionInfo{
		TotalTransactions: count,
		TotalSales:        sum,
	}
	if count > 0 {
		avg := float64(sum) / float64(count)
		info.AverageTransactions = math.Round(avg*100) / 100
	}

	return info, nil
}

// OrderInfo returns the delivery-status histogram across all orders.
func (s *AnalyticsService) OrderInfo(ctx context.Context) (*domain.OrderStatusInfo, error) {
	counts, err := s.analytics.DeliveryStatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("query delivery status counts: %w", err)
	}

	info := &domain.OrderStatusInfo{}
	for _, sc := range counts {
		info.TotalOrders += sc.Count
		switch sc.Status {
		case domain.DeliveryProcessing:
			info.Processing = sc.Count
		case domain.DeliveryShipped:
			info.Shipped = sc.Count
		case domain.DeliveryDelivered:
			info.Delivered = sc.Count
		default:
			s.logger.WarnContext(ctx, "unknown delivery status in histogram",
				slog.String("status", sc.Status),
			)
		}
	}

	return info, nil
}

// RecentSales returns the newest orders with buyer info plus their combined
// revenue.
func (s *AnalyticsService) RecentSales(ctx context.Context, limit int) (*domain.RecentSales, error) {
	if limit <= 0 {
		limit = defaultRecentSalesLimit
	}
	if limit > maxRecentSalesLimit {
		limit = maxRecentSalesLimit
	}

	orders, err := s.analytics.RecentOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}

	result := &domain.RecentSales{
		TotalOrders: len(orders),
		Orders:      orders,
	}
	for _, o := range orders {
		result.TotalPriceOfRecentSales += o.TotalPrice
	}
	if result.Orders == nil {
		result.Orders = []domain.RecentSale{}
	}

	return result, nil
}
