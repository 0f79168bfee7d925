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

// ProductService implements the public catalog and the admin product CRUD.
type ProductService struct {
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		products: products,
		logger:   logger,
	}
}

// ProductInput holds the admin-supplied product fields.
type ProductInput struct {
	Name         string
	Description  string
	Price        int64
	Stock        int
	Category     string
	Images       []domain.Image
	DefaultImage domain.Image
}

func (in *ProductInput) validate() error {
	if in.Name == "" {
		return apperrors.InvalidInput("name is required")
	}
	if in.Price < 0 {
		return apperrors.InvalidInput("price must not be negative")
	}
	if in.Stock < 0 {
		return apperrors.InvalidInput("stock must not be negative")
	}
	if !domain.IsValidCategory(in.Category) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown category %q", in.Category))
	}
	if len(in.Images) > domain.MaxProductImages {
		return apperrors.InvalidInput(fmt.Sprintf("at most %d images are allowed", domain.MaxProductImages))
	}
	return nil
}

// CreateProduct adds a product to the catalog.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		Stock:        input.Stock,
		Category:     domain.Category(input.Category),
		Images:       input.Images,
		DefaultImage: input.DefaultImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if product.Images == nil {
		product.Images = []domain.Image{}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("category", string(product.Category)),
	)

	return product, nil
}

// GetProduct retrieves a product by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns a filtered, paginated catalog page.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Category != nil && !domain.IsValidCategory(*filter.Category) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", *filter.Category))
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct replaces a product's mutable fields. The rating summary is
// owned by the review pipeline and is never touched here.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.Category = domain.Category(input.Category)
	product.Images = input.Images
	product.DefaultImage = input.DefaultImage
	product.UpdatedAt = time.Now().UTC()
	if product.Images == nil {
		product.Images = []domain.Image{}
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", id))

	return product, nil
}

// DeleteProduct removes a product. Existing orders keep their snapshots and
// bags drop the dangling reference at read time.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("product", id)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}
