package repository

import (
	"context"
	"time"

	"github.com/angkushsahu/pacifio-server/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	Category *string
	Search   *string
	Page     int
	PerPage  int
}

// ProductRepository defines persistence for the product catalog.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by id.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByIDs retrieves the products that still exist among the given ids.
	// Missing ids are silently omitted from the result.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)

	// List returns products matching the filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update replaces the mutable fields of a product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product. Bags referencing it drop the entry at read
	// time; orders keep their snapshots.
	Delete(ctx context.Context, id string) error

	// DecrementStock applies stock = stock - qty unconditionally.
	DecrementStock(ctx context.Context, id string, qty int) error
}

// StockDecrement is one product quantity deducted during checkout.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// OrderRepository defines persistence for orders.
type OrderRepository interface {
	// Create inserts a new order and its items atomically.
	Create(ctx context.Context, order *domain.Order) error

	// CreateWithStock inserts the order and applies floor-checked stock
	// decrements in a single transaction. It fails with a conflict error
	// when any product has fewer units than requested.
	CreateWithStock(ctx context.Context, order *domain.Order, decrements []StockDecrement) error

	// GetByID retrieves an order by id, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter along with the total count,
	// newest first.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdatePayment stamps the payment capture on an order.
	UpdatePayment(ctx context.Context, id string, info domain.PaymentInfo) error

	// UpdateDelivery moves an order through the delivery pipeline.
	UpdateDelivery(ctx context.Context, id string, info domain.DeliveryInfo) error
}

// ReviewRepository defines persistence for reviews and the denormalized
// product rating summary. The write methods update both in one transaction.
type ReviewRepository interface {
	// GetByUserAndProduct retrieves a user's review of a product.
	GetByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Review, error)

	// ListByProduct returns a product's reviews, newest first, with the
	// total count.
	ListByProduct(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error)

	// CreateWithRating inserts the review and writes the new rating summary
	// onto the product row in one transaction.
	CreateWithRating(ctx context.Context, review *domain.Review, rating domain.Rating) error

	// UpdateWithRating updates the review and writes the new rating summary
	// onto the product row in one transaction.
	UpdateWithRating(ctx context.Context, review *domain.Review, rating domain.Rating) error

	// DeleteWithRating deletes the review and writes the new rating summary
	// onto the product row in one transaction.
	DeleteWithRating(ctx context.Context, reviewID, productID string, rating domain.Rating) error
}

// BagRepository defines persistence for shopping bags.
type BagRepository interface {
	// Get retrieves a user's bag.
	Get(ctx context.Context, userID string) (*domain.Bag, error)

	// Save persists a bag with the configured TTL.
	Save(ctx context.Context, bag *domain.Bag) error

	// Delete removes a user's bag. Deleting a missing bag is not an error.
	Delete(ctx context.Context, userID string) error
}

// AddressRepository defines persistence for the address book.
type AddressRepository interface {
	// Create inserts a new address.
	Create(ctx context.Context, address *domain.Address) error

	// GetByID retrieves an address by id.
	GetByID(ctx context.Context, id string) (*domain.Address, error)

	// ListByUser returns all of a user's addresses, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)

	// Delete removes an address.
	Delete(ctx context.Context, id string) error
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts a new user row.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// DeleteCascade removes the user row and every address owned by the
	// user in one transaction. Orders are retained.
	DeleteCascade(ctx context.Context, userID string) error
}

// MonthTotal is one (year, month) revenue bucket as stored.
type MonthTotal struct {
	Year  int
	Month time.Month
	Total int64
}

// StatusCount is one delivery-status histogram bucket.
type StatusCount struct {
	Status string
	Count  int
}

// AnalyticsRepository defines the read-only aggregation queries backing the
// seller dashboard.
type AnalyticsRepository interface {
	// MonthlySales returns per-month revenue for orders created at or after
	// since. Months with no orders are absent.
	MonthlySales(ctx context.Context, since time.Time) ([]MonthTotal, error)

	// TransactionTotals returns the count and revenue sum across all orders.
	TransactionTotals(ctx context.Context) (count int, sum int64, err error)

	// DeliveryStatusCounts returns the delivery-status histogram.
	DeliveryStatusCounts(ctx context.Context) ([]StatusCount, error)

	// RecentOrders returns the newest limit orders joined with buyer info.
	RecentOrders(ctx context.Context, limit int) ([]domain.RecentSale, error)
}
