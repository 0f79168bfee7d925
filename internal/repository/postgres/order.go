package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/repository"
	"github.com/angkushsahu/pacifio-server/pkg/database"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const insertOrderQuery = `
	INSERT INTO orders (id, user_id, address, delivery_status, delivery_time, payment_status, payment_id, payment_time, total_price, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const insertOrderItemQuery = `
	INSERT INTO order_items (order_id, product_id, name, category, price, quantity, item_price, image)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Create inserts a new order and its items atomically within a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertOrderTx(ctx, tx, o); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// CreateWithStock inserts the order and applies floor-checked stock
// decrements in one transaction. Any product with fewer units than requested
// aborts the whole checkout with a conflict error.
func (r *OrderRepository) CreateWithStock(ctx context.Context, o *domain.Order, decrements []repository.StockDecrement) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	decrementQuery := `
		UPDATE products
		SET stock = stock - $1, updated_at = now()
		WHERE id = $2 AND stock >= $1`

	for _, dec := range decrements {
		ct, err := tx.Exec(ctx, decrementQuery, dec.Quantity, dec.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.Conflict("insufficient stock for product " + dec.ProductID)
		}
	}

	if err := insertOrderTx(ctx, tx, o); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// insertOrderTx writes the order row and its items inside the given transaction.
func insertOrderTx(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	addressJSON, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	_, err = tx.Exec(ctx, insertOrderQuery,
		o.ID,
		o.UserID,
		addressJSON,
		o.DeliveryInfo.Status,
		o.DeliveryInfo.Time,
		o.PaymentInfo.Status,
		o.PaymentInfo.ID,
		o.PaymentInfo.Time,
		o.TotalPrice,
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, insertOrderItemQuery,
			o.ID,
			item.ProductID,
			item.Name,
			item.Category,
			item.Price,
			item.Quantity,
			item.ItemPrice,
			item.Image,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an order by its ID, eagerly loading its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_id, address, delivery_status, delivery_time, payment_status, payment_id, payment_time, total_price, created_at
		FROM orders
		WHERE id = $1`

	var (
		o           domain.Order
		addressJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&addressJSON,
		&o.DeliveryInfo.Status,
		&o.DeliveryInfo.Time,
		&o.PaymentInfo.Status,
		&o.PaymentInfo.ID,
		&o.PaymentInfo.Time,
		&o.TotalPrice,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &o.Address); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}

	items, err := r.loadOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

// List returns orders matching the given filter with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("delivery_status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() returns the total count in the same query.
	query := fmt.Sprintf(`
		SELECT id, user_id, address, delivery_status, delivery_time, payment_status, payment_id, payment_time, total_price, created_at,
			   count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o           domain.Order
			addressJSON []byte
		)

		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&addressJSON,
			&o.DeliveryInfo.Status,
			&o.DeliveryInfo.Time,
			&o.PaymentInfo.Status,
			&o.PaymentInfo.ID,
			&o.PaymentInfo.Time,
			&o.TotalPrice,
			&o.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		if err := json.Unmarshal(addressJSON, &o.Address); err != nil {
			return nil, 0, fmt.Errorf("unmarshal address: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	// Batch-load items for all orders in a single query to avoid N+1.
	if len(orders) > 0 {
		orderIDs := make([]string, len(orders))
		for i := range orders {
			orderIDs[i] = orders[i].ID
		}

		itemsQuery := `
			SELECT order_id, product_id, name, category, price, quantity, item_price, image
			FROM order_items
			WHERE order_id = ANY($1)
			ORDER BY order_id`

		itemRows, err := r.pool.Query(ctx, itemsQuery, orderIDs)
		if err != nil {
			return nil, 0, fmt.Errorf("batch load order items: %w", err)
		}
		defer itemRows.Close()

		itemsByOrderID := make(map[string][]domain.OrderItem, len(orders))
		for itemRows.Next() {
			var (
				orderID string
				item    domain.OrderItem
			)
			if err := itemRows.Scan(
				&orderID,
				&item.ProductID,
				&item.Name,
				&item.Category,
				&item.Price,
				&item.Quantity,
				&item.ItemPrice,
				&item.Image,
			); err != nil {
				return nil, 0, fmt.Errorf("scan order item: %w", err)
			}
			itemsByOrderID[orderID] = append(itemsByOrderID[orderID], item)
		}
		if err := itemRows.Err(); err != nil {
			return nil, 0, fmt.Errorf("iterate batch order item rows: %w", err)
		}

		for i := range orders {
			if items, ok := itemsByOrderID[orders[i].ID]; ok {
				orders[i].Items = items
			} else {
				orders[i].Items = []domain.OrderItem{}
			}
		}
	}

	return orders, totalCount, nil
}

// UpdatePayment stamps the payment capture on an order.
func (r *OrderRepository) UpdatePayment(ctx context.Context, id string, info domain.PaymentInfo) error {
	query := `
		UPDATE orders
		SET payment_status = $1, payment_id = $2, payment_time = $3
		WHERE id = $4`

	ct, err := r.pool.Exec(ctx, query, info.Status, info.ID, info.Time, id)
	if err != nil {
		return fmt.Errorf("update order payment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// UpdateDelivery moves an order through the delivery pipeline.
func (r *OrderRepository) UpdateDelivery(ctx context.Context, id string, info domain.DeliveryInfo) error {
	query := `
		UPDATE orders
		SET delivery_status = $1, delivery_time = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, info.Status, info.Time, id)
	if err != nil {
		return fmt.Errorf("update order delivery: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// loadOrderItems retrieves all items belonging to a given order.
func (r *OrderRepository) loadOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT product_id, name, category, price, quantity, item_price, image
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.Category,
			&item.Price,
			&item.Quantity,
			&item.ItemPrice,
			&item.Image,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	if items == nil {
		items = []domain.OrderItem{}
	}

	return items, nil
}
