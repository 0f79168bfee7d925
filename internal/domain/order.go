package domain

import "time"

// Delivery statuses form a linear pipeline.
const (
	DeliveryProcessing = "processing"
	DeliveryShipped    = "shipped"
	DeliveryDelivered  = "delivered"
)

// Payment statuses.
const (
	PaymentNotPaid = "not-paid"
	PaymentPaid    = "paid"
)

// NextDeliveryStatus returns the status after current in the
// processing -> shipped -> delivered pipeline. ok is false at the terminal
// state and for unknown statuses.
func NextDeliveryStatus(current string) (next string, ok bool) {
	switch current {
	case DeliveryProcessing:
		return DeliveryShipped, true
	case DeliveryShipped:
		return DeliveryDelivered, true
	default:
		return "", false
	}
}

// DeliveryInfo tracks an order's position in the delivery pipeline. Time is
// stamped only when the order reaches delivered.
type DeliveryInfo struct {
	Status string     `json:"status"`
	Time   *time.Time `json:"time,omitempty"`
}

// PaymentInfo tracks the payment capture of an order.
type PaymentInfo struct {
	Status string     `json:"status"`
	ID     string     `json:"id,omitempty"`
	Time   *time.Time `json:"time,omitempty"`
}

// OrderItem is a purchased line frozen at checkout time. Later edits to the
// product never change it.
type OrderItem struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Price     int64    `json:"price"`
	Quantity  int      `json:"quantity"`
	ItemPrice int64    `json:"itemPrice"`
	Image     string   `json:"image"`
}

// Order is a placed order. Orders are historical facts and are never deleted,
// even when the owning user is removed.
type Order struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Address      Address      `json:"address"`
	DeliveryInfo DeliveryInfo `json:"deliveryInfo"`
	PaymentInfo  PaymentInfo  `json:"paymentInfo"`
	TotalPrice   int64        `json:"totalPrice"`
	Items        []OrderItem  `json:"items"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// IsPaid reports whether the order's payment has been captured.
func (o *Order) IsPaid() bool {
	return o.PaymentInfo.Status == PaymentPaid
}
