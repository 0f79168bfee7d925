package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/repository"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

// BagService implements the business logic for shopping bags. Bags store
// only product references; prices and names are resolved against the live
// catalog on every read.
type BagService struct {
	bags     repository.BagRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewBagService creates a new bag service.
func NewBagService(bags repository.BagRepository, products repository.ProductRepository, logger *slog.Logger) *BagService {
	return &BagService{
		bags:     bags,
		products: products,
		logger:   logger,
	}
}

// GetBag returns the user's materialized bag, creating an empty bag on first
// access. Repeated calls never create duplicates.
func (s *BagService) GetBag(ctx context.Context, userID string) (*domain.BagView, error) {
	bag, err := s.getOrCreateBag(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.materialize(ctx, bag)
}

// AddItem upserts a product entry in the user's bag. Re-adding a product
// replaces its quantity.
func (s *BagService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.BagView, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than zero")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("get product for bag: %w", err)
	}

	if !product.InStock(quantity) {
		return nil, apperrors.InvalidInput("quantity exceeds available stock")
	}

	bag, err := s.getOrCreateBag(ctx, userID)
	if err != nil {
		return nil, err
	}

	bag.SetItem(productID, quantity)
	bag.UpdatedAt = time.Now().UTC()

	if err := s.bags.Save(ctx, bag); err != nil {
		return nil, fmt.Errorf("save bag: %w", err)
	}

	s.logger.InfoContext(ctx, "bag item set",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return s.materialize(ctx, bag)
}

// RemoveItem drops a product from the user's bag. Removing a product that is
// not in the bag is a no-op, so the operation is idempotent.
func (s *BagService) RemoveItem(ctx context.Context, userID, productID string) (*domain.BagView, error) {
	bag, err := s.bags.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("shopping-bag", userID)
		}
		return nil, fmt.Errorf("get bag: %w", err)
	}

	if bag.RemoveItem(productID) {
		bag.UpdatedAt = time.Now().UTC()
		if err := s.bags.Save(ctx, bag); err != nil {
			return nil, fmt.Errorf("save bag: %w", err)
		}

		s.logger.InfoContext(ctx, "bag item removed",
			slog.String("user_id", userID),
			slog.String("product_id", productID),
		)
	}

	return s.materialize(ctx, bag)
}

// Clear deletes the user's bag. Used after payment capture and on account
// deletion; clearing a missing bag is not an error.
func (s *BagService) Clear(ctx context.Context, userID string) error {
	if err := s.bags.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete bag: %w", err)
	}
	return nil
}

// getOrCreateBag fetches the user's bag, lazily creating an empty one.
func (s *BagService) getOrCreateBag(ctx context.Context, userID string) (*domain.Bag, error) {
	bag, err := s.bags.Get(ctx, userID)
	if err == nil {
		return bag, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get bag: %w", err)
	}

	now := time.Now().UTC()
	bag = &domain.Bag{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []domain.BagItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bags.Save(ctx, bag); err != nil {
		return nil, fmt.Errorf("save new bag: %w", err)
	}

	return bag, nil
}

// materialize joins bag entries against the live catalog. Entries whose
// product has been deleted are dropped from the view and excluded from every
// total; the stored bag is left untouched.
func (s *BagService) materialize(ctx context.Context, bag *domain.Bag) (*domain.BagView, error) {
	view := &domain.BagView{
		ID:     bag.ID,
		UserID: bag.UserID,
		Items:  []domain.BagViewItem{},
	}

	if len(bag.Items) == 0 {
		return view, nil
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

	for _, item := range bag.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			// Product deleted since it was bagged.
			continue
		}

		itemPrice := p.Price * int64(item.Quantity)
		view.Items = append(view.Items, domain.BagViewItem{
			Product: domain.BagProduct{
				ID:           p.ID,
				Name:         p.Name,
				Price:        p.Price,
				Stock:        p.Stock,
				Category:     p.Category,
				DefaultImage: p.DefaultImage,
			},
			Quantity:  item.Quantity,
			ItemPrice: itemPrice,
		})
		view.TotalPrice += itemPrice
	}

	// totalProducts counts distinct bag entries, not units.
	view.TotalProducts = len(view.Items)

	return view, nil
}
