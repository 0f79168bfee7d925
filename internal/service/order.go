package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/event"
	"github.com/angkushsahu/pacifio-server/internal/payment"
	"github.com/angkushsahu/pacifio-server/internal/repository"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

// OrderConfig tunes the order pipeline.
type OrderConfig struct {
	// StrictCheckout runs every stock decrement and the order insert in one
	// transaction with floor checks. When false, decrements are applied
	// per-product without a floor, which can oversell under concurrent
	// checkouts of the last units.
	StrictCheckout bool

	// Currency is the 3-letter ISO code charged by the payment provider.
	Currency string
}

// OrderService implements the order pipeline: checkout, payment capture and
// delivery progression.
type OrderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	addresses repository.AddressRepository
	bags      repository.BagRepository
	provider  payment.Provider
	producer  *event.Producer
	logger    *slog.Logger
	cfg       OrderConfig
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	addresses repository.AddressRepository,
	bags repository.BagRepository,
	provider payment.Provider,
	producer *event.Producer,
	logger *slog.Logger,
	cfg OrderConfig,
) *OrderService {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		addresses: addresses,
		bags:      bags,
		provider:  provider,
		producer:  producer,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateOrder turns the user's bag into an order delivered to the given
// address. Line items snapshot the product's current name, category, price
// and image; bag entries whose product has been deleted are skipped. The bag
// itself is kept until payment succeeds.
func (s *OrderService) CreateOrder(ctx context.Context, userID, addressID string) (*domain.Order, error) {
	bag, err := s.bags.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("shopping-bag", userID)
		}
		return nil, fmt.Errorf("get bag for checkout: %w", err)
	}
	if len(bag.Items) == 0 {
		return nil, apperrors.NotFoundMessage("shopping bag is empty")
	}

	address, err := s.resolveAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(bag.Items))
	for i, item := range bag.Items {
		ids[i] = item.ProductID
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve bag products: %w", err)
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var (
		items      []domain.OrderItem
		decrements []repository.StockDecrement
		totalPrice int64
	)
	for _, entry := range bag.Items {
		p, ok := byID[entry.ProductID]
		if !ok {
			// Product deleted since it was bagged; skip the entry.
			continue
		}

		itemPrice := p.Price * int64(entry.Quantity)
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price,
			Quantity:  entry.Quantity,
			ItemPrice: itemPrice,
			Image:     p.DefaultImage.SecureURL,
		})
		decrements = append(decrements, repository.StockDecrement{
			ProductID: p.ID,
			Quantity:  entry.Quantity,
		})
		totalPrice += itemPrice
	}

	if len(items) == 0 {
		return nil, apperrors.NotFoundMessage("shopping bag has no purchasable items")
	}

	order := &domain.Order{
		ID:           uuid.New().String(),
		UserID:       userID,
		Address:      *address,
		DeliveryInfo: domain.DeliveryInfo{Status: domain.DeliveryProcessing},
		PaymentInfo:  domain.PaymentInfo{Status: domain.PaymentNotPaid},
		TotalPrice:   totalPrice,
		Items:        items,
		CreatedAt:    time.Now().UTC(),
	}

	if s.cfg.StrictCheckout {
		if err := s.orders.CreateWithStock(ctx, order, decrements); err != nil {
			return nil, fmt.Errorf("create order with stock: %w", err)
		}
	} else {
		for _, dec := range decrements {
			if err := s.products.DecrementStock(ctx, dec.ProductID, dec.Quantity); err != nil {
				return nil, fmt.Errorf("decrement stock: %w", err)
			}
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int64("total_price", order.TotalPrice),
		slog.Int("items", len(order.Items)),
	)

	return order, nil
}

// AcceptPayment captures payment for an order. The charge amount is the
// order total converted to the currency's minor unit, and the order ID
// travels as the idempotency key so a retried capture cannot double-charge.
// On success the payment is stamped and the user's bag is cleared.
func (s *OrderService) AcceptPayment(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.getOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid() {
		return nil, apperrors.Conflict("order has already been paid")
	}

	result, err := s.provider.Charge(ctx, &payment.ChargeInput{
		Amount:         order.TotalPrice * 100,
		Currency:       s.cfg.Currency,
		Description:    "Pacifio order " + order.ID,
		IdempotencyKey: order.ID,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "payment charge failed",
			slog.String("order_id", order.ID),
			slog.String("provider", s.provider.Name()),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.PaymentFailed("payment could not be processed")
	}
	if result.Status != payment.StatusSucceeded {
		s.logger.WarnContext(ctx, "payment charge declined",
			slog.String("order_id", order.ID),
			slog.String("status", result.Status),
			slog.String("reason", result.FailureReason),
		)
		return nil, apperrors.PaymentFailed("payment was declined")
	}

	now := time.Now().UTC()
	info := domain.PaymentInfo{
		Status: domain.PaymentPaid,
		ID:     result.ChargeID,
		Time:   &now,
	}

	if err := s.orders.UpdatePayment(ctx, order.ID, info); err != nil {
		return nil, fmt.Errorf("update order payment: %w", err)
	}
	order.PaymentInfo = info

	// The purchased bag is spent; a fresh one is created lazily on next use.
	if err := s.bags.Delete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear bag after payment",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	} else if err := s.producer.PublishBagCleared(ctx, userID, "payment"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish bag.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderPaid(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.paid event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order paid",
		slog.String("order_id", order.ID),
		slog.String("payment_id", info.ID),
		slog.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// GetOrder retrieves one of the user's orders. Another user's order is
// indistinguishable from a missing one.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return s.getOwnedOrder(ctx, userID, orderID)
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, page, perPage int) ([]domain.Order, int, error) {
	filter := repository.OrderFilter{
		UserID:  &userID,
		Page:    page,
		PerPage: perPage,
	}
	return s.listOrders(ctx, filter)
}

// AdminGetOrder retrieves any order without an ownership check.
func (s *OrderService) AdminGetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// AdminListOrders returns all orders, optionally filtered by delivery status.
func (s *OrderService) AdminListOrders(ctx context.Context, status *string, page, perPage int) ([]domain.Order, int, error) {
	if status != nil {
		switch *status {
		case domain.DeliveryProcessing, domain.DeliveryShipped, domain.DeliveryDelivered:
		default:
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown delivery status %q", *status))
		}
	}

	filter := repository.OrderFilter{
		Status:  status,
		Page:    page,
		PerPage: perPage,
	}
	return s.listOrders(ctx, filter)
}

// UpdateDeliveryStatus advances an order one step along
// processing -> shipped -> delivered. The delivery time is stamped only when
// the order reaches delivered; advancing a delivered order is a conflict.
func (s *OrderService) UpdateDeliveryStatus(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.AdminGetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, ok := domain.NextDeliveryStatus(order.DeliveryInfo.Status)
	if !ok {
		return nil, apperrors.Conflict("order has already been delivered")
	}

	info := domain.DeliveryInfo{Status: next}
	if next == domain.DeliveryDelivered {
		now := time.Now().UTC()
		info.Time = &now
	}

	if err := s.orders.UpdateDelivery(ctx, orderID, info); err != nil {
		return nil, fmt.Errorf("update order delivery: %w", err)
	}

	oldStatus := order.DeliveryInfo.Status
	order.DeliveryInfo = info

	if err := s.producer.PublishDeliveryUpdated(ctx, orderID, oldStatus, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.delivery_updated event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order delivery updated",
		slog.String("order_id", orderID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", next),
	)

	return order, nil
}

func (s *OrderService) listOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// getOwnedOrder fetches an order and verifies ownership. A foreign order is
// reported as not found, never as forbidden.
func (s *OrderService) getOwnedOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if order.UserID != userID {
		return nil, apperrors.NotFound("order", orderID)
	}

	return order, nil
}

// resolveAddress fetches an address and verifies ownership with the same
// not-found masking as orders.
func (s *OrderService) resolveAddress(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	address, err := s.addresses.GetByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("address", addressID)
		}
		return nil, fmt.Errorf("get address by id: %w", err)
	}

	if address.UserID != userID {
		return nil, apperrors.NotFound("address", addressID)
	}

	return address, nil
}
