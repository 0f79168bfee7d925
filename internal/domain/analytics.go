package domain

import "time"

// MonthlySale is one month's order revenue. Name is the short English month
// name (Jan..Dec).
type MonthlySale struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// TransactionInfo summarizes all orders ever placed.
type TransactionInfo struct {
	TotalTransactions   int     `json:"totalTransactions"`
	TotalSales          int64   `json:"totalSales"`
	AverageTransactions float64 `json:"averageTransactions"`
}

// OrderStatusInfo is the delivery-status histogram across all orders.
type OrderStatusInfo struct {
	TotalOrders int `json:"totalOrders"`
	Processing  int `json:"processing"`
	Shipped     int `json:"shipped"`
	Delivered   int `json:"delivered"`
}

// RecentSale is one row of the recent-sales feed. User fields are blank when
// the buyer's account has since been deleted.
type RecentSale struct {
	OrderID    string    `json:"orderId"`
	UserName   string    `json:"userName"`
	UserEmail  string    `json:"userEmail"`
	TotalPrice int64     `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RecentSales bundles the recent-sales feed with its combined revenue.
type RecentSales struct {
	TotalOrders             int          `json:"totalOrders"`
	TotalPriceOfRecentSales int64        `json:"totalPriceOfRecentSales"`
	Orders                  []RecentSale `json:"orders"`
}
