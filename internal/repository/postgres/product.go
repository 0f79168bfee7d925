package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	"github.com/angkushsahu/pacifio-server/internal/repository"
	"github.com/angkushsahu/pacifio-server/pkg/database"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, price, stock, category, images, default_image, total_ratings, number_of_reviews, average_rating, created_at, updated_at`

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	defaultImageJSON, err := json.Marshal(p.DefaultImage)
	if err != nil {
		return fmt.Errorf("marshal default image: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, stock, category, images, default_image, total_ratings, number_of_reviews, average_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Stock,
		p.Category,
		imagesJSON,
		defaultImageJSON,
		p.Rating.TotalRatings,
		p.Rating.NumberOfReviews,
		p.Rating.AverageRating,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return p, nil
}

// GetByIDs retrieves the products that still exist among the given ids.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query products by ids: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// List returns products matching the given filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, argIndex, argIndex+1,
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
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var totalCount int
	products := make([]domain.Product, 0)

	for rows.Next() {
		p, err := scanProductWithCount(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, totalCount, nil
}

// Update replaces the mutable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	defaultImageJSON, err := json.Marshal(p.DefaultImage)
	if err != nil {
		return fmt.Errorf("marshal default image: %w", err)
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, category = $5, images = $6, default_image = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.Stock,
		p.Category,
		imagesJSON,
		defaultImageJSON,
		time.Now().UTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// DecrementStock applies stock = stock - qty without a floor check, matching
// the non-strict checkout mode.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = now()
		WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, qty, id)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// updateRatingTx writes the denormalized rating summary onto the product row
// inside the given transaction. Shared with the review repository.
func updateRatingTx(ctx context.Context, tx pgx.Tx, productID string, rating domain.Rating) error {
	query := `
		UPDATE products
		SET total_ratings = $1, number_of_reviews = $2, average_rating = $3, updated_at = now()
		WHERE id = $4`

	ct, err := tx.Exec(ctx, query, rating.TotalRatings, rating.NumberOfReviews, rating.AverageRating, productID)
	if err != nil {
		return fmt.Errorf("update product rating: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", productID)
	}

	return nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for the shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p                domain.Product
		imagesJSON       []byte
		defaultImageJSON []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.Category,
		&imagesJSON,
		&defaultImageJSON,
		&p.Rating.TotalRatings,
		&p.Rating.NumberOfReviews,
		&p.Rating.AverageRating,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := unmarshalProductImages(&p, imagesJSON, defaultImageJSON); err != nil {
		return nil, err
	}

	return &p, nil
}

func scanProductWithCount(row rowScanner, totalCount *int) (*domain.Product, error) {
	var (
		p                domain.Product
		imagesJSON       []byte
		defaultImageJSON []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.Category,
		&imagesJSON,
		&defaultImageJSON,
		&p.Rating.TotalRatings,
		&p.Rating.NumberOfReviews,
		&p.Rating.AverageRating,
		&p.CreatedAt,
		&p.UpdatedAt,
		totalCount,
	); err != nil {
		return nil, err
	}

	if err := unmarshalProductImages(&p, imagesJSON, defaultImageJSON); err != nil {
		return nil, err
	}

	return &p, nil
}

func unmarshalProductImages(p *domain.Product, imagesJSON, defaultImageJSON []byte) error {
	if len(imagesJSON) > 0 && string(imagesJSON) != "null" {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return fmt.Errorf("unmarshal images: %w", err)
		}
	} else {
		p.Images = []domain.Image{}
	}

	if len(defaultImageJSON) > 0 && string(defaultImageJSON) != "null" {
		if err := json.Unmarshal(defaultImageJSON, &p.DefaultImage); err != nil {
			return fmt.Errorf("unmarshal default image: %w", err)
		}
	}

	return nil
}
