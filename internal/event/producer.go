package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	pkgkafka "github.com/angkushsahu/pacifio-server/pkg/kafka"
)

// Kafka topics for commerce domain events.
const (
	TopicOrderCreated         = "pacifio.order.created"
	TopicOrderPaid            = "pacifio.order.paid"
	TopicOrderDeliveryUpdated = "pacifio.order.delivery_updated"
	TopicReviewWritten        = "pacifio.review.written"
	TopicBagCleared           = "pacifio.bag.cleared"
)

// Aggregate type constants.
const (
	AggregateTypeOrder  = "order"
	AggregateTypeReview = "review"
	AggregateTypeBag    = "shopping-bag"
)

// Source identifier for events originating from this server.
const Source = "pacifio-server"

// OrderCreatedData is the payload for an order.created event (full snapshot).
type OrderCreatedData struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Items      []OrderItemData `json:"items"`
	TotalPrice int64           `json:"totalPrice"`
}

// OrderItemData is the event payload for an order line.
type OrderItemData struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	ItemPrice int64  `json:"itemPrice"`
}

// OrderPaidData is the payload for an order.paid event.
type OrderPaidData struct {
	OrderID    string `json:"orderId"`
	UserID     string `json:"userId"`
	PaymentID  string `json:"paymentId"`
	TotalPrice int64  `json:"totalPrice"`
}

// DeliveryUpdatedData is the payload for an order.delivery_updated event.
type DeliveryUpdatedData struct {
	OrderID   string `json:"orderId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

// ReviewWrittenData is the payload for a review.written event.
type ReviewWrittenData struct {
	ReviewID      string  `json:"reviewId"`
	ProductID     string  `json:"productId"`
	UserID        string  `json:"userId"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"averageRating"`
}

// BagClearedData is the payload for a bag.cleared event.
type BagClearedData struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

// Producer publishes commerce domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event with the full order snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ItemPrice: item.ItemPrice,
		}
	}

	data := OrderCreatedData{
		ID:         order.ID,
		UserID:     order.UserID,
		Items:      items,
		TotalPrice: order.TotalPrice,
	}

	return p.publish(ctx, TopicOrderCreated, order.ID, AggregateTypeOrder, data)
}

// PublishOrderPaid publishes an order.paid event after a successful capture.
func (p *Producer) PublishOrderPaid(ctx context.Context, order *domain.Order) error {
	data := OrderPaidData{
		OrderID:    order.ID,
		UserID:     order.UserID,
		PaymentID:  order.PaymentInfo.ID,
		TotalPrice: order.TotalPrice,
	}

	return p.publish(ctx, TopicOrderPaid, order.ID, AggregateTypeOrder, data)
}

// PublishDeliveryUpdated publishes an order.delivery_updated event.
func (p *Producer) PublishDeliveryUpdated(ctx context.Context, orderID, oldStatus, newStatus string) error {
	data := DeliveryUpdatedData{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	return p.publish(ctx, TopicOrderDeliveryUpdated, orderID, AggregateTypeOrder, data)
}

// PublishReviewWritten publishes a review.written event after an upsert.
func (p *Producer) PublishReviewWritten(ctx context.Context, review *domain.Review, rating domain.Rating) error {
	data := ReviewWrittenData{
		ReviewID:      review.ID,
		ProductID:     review.ProductID,
		UserID:        review.UserID,
		Rating:        review.Rating,
		AverageRating: rating.AverageRating,
	}

	return p.publish(ctx, TopicReviewWritten, review.ID, AggregateTypeReview, data)
}

// PublishBagCleared publishes a bag.cleared event.
func (p *Producer) PublishBagCleared(ctx context.Context, userID, reason string) error {
	data := BagClearedData{UserID: userID, Reason: reason}

	return p.publish(ctx, TopicBagCleared, userID, AggregateTypeBag, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
