package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/repository"
	"github.com/angkushsahu/pacifio-server/pkg/database"
)

// AnalyticsRepository implements repository.AnalyticsRepository with
// aggregation queries over the orders table.
type AnalyticsRepository struct {
	pool database.DBTX
}

// NewAnalyticsRepository creates a new PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(pool database.DBTX) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// MonthlySales returns per-month revenue for orders created at or after since.
func (r *AnalyticsRepository) MonthlySales(ctx context.Context, since time.Time) ([]repository.MonthTotal, error) {
	query := `
		SELECT EXTRACT(YEAR FROM created_at)::int AS year,
			   EXTRACT(MONTH FROM created_at)::int AS month,
			   COALESCE(SUM(total_price), 0) AS total
		FROM orders
		WHERE created_at >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query monthly sales: %w", err)
	}
	defer rows.Close()

	totals := make([]repository.MonthTotal, 0, 12)
	for rows.Next() {
		var (
			year, month int
			total       int64
		)
		if err := rows.Scan(&year, &month, &total); err != nil {
			return nil, fmt.Errorf("scan monthly sales row: %w", err)
		}
		totals = append(totals, repository.MonthTotal{
			Year:  year,
			Month: time.Month(month),
			Total: total,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly sales rows: %w", err)
	}

	return totals, nil
}

// TransactionTotals returns the count and revenue sum across all orders.
func (r *AnalyticsRepository) TransactionTotals(ctx context.Context) (int, int64, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM orders`

	var (
		count int
		sum   int64
	)
	if err := r.pool.QueryRow(ctx, query).Scan(&count, &sum); err != nil {
		return 0, 0, fmt.Errorf("query transaction totals: %w", err)
	}

	return count, sum, nil
}

// DeliveryStatusCounts returns the delivery-status histogram.
func (r *AnalyticsRepository) DeliveryStatusCounts(ctx context.Context) ([]repository.StatusCount, error) {
	query := `
		SELECT delivery_status, COUNT(*)
		FROM orders
		GROUP BY delivery_status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query delivery status counts: %w", err)
	}
	defer rows.Close()

	counts := make([]repository.StatusCount, 0, 3)
	for rows.Next() {
		var sc repository.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count row: %w", err)
		}
		counts = append(counts, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status count rows: %w", err)
	}

	return counts, nil
}

// RecentOrders returns the newest limit orders joined with buyer info. The
// join is LEFT so orders survive the deletion of their buyer's account.
func (r *AnalyticsRepository) RecentOrders(ctx context.Context, limit int) ([]domain.RecentSale, error) {
	query := `
		SELECT o.id, COALESCE(u.name, ''), COALESCE(u.email, ''), o.total_price, o.created_at
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.RecentSale, 0, limit)
	for rows.Next() {
		var s domain.RecentSale
		if err := rows.Scan(&s.OrderID, &s.UserName, &s.UserEmail, &s.TotalPrice, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent order row: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent order rows: %w", err)
	}

	return sales, nil
}
