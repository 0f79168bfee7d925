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
	"github.com/angkushsahu/pacifio-server/internal/repository"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

// ReviewService implements reviews and the product rating summary. The
// summary lives on the product row and every review write updates it in the
// same transaction.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// UpsertReview creates the user's review of a product, or replaces it if one
// exists. A new review grows the summary by one; a replacement shifts the
// total by the score difference and leaves the count unchanged.
func (s *ReviewService) UpsertReview(ctx context.Context, userID, productID string, score int, comment string) (*domain.Review, error) {
	if score < domain.MinReviewScore || score > domain.MaxReviewScore {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinReviewScore, domain.MaxReviewScore))
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("get product for review: %w", err)
	}

	now := time.Now().UTC()
	rating := product.Rating

	existing, err := s.reviews.GetByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		oldScore := existing.Rating
		existing.Rating = score
		existing.Comment = comment
		existing.UpdatedAt = now

		rating.Replace(oldScore, score)
		if err := s.reviews.UpdateWithRating(ctx, existing, rating); err != nil {
			return nil, fmt.Errorf("update review: %w", err)
		}

		s.publishWritten(ctx, existing, rating)
		s.logger.InfoContext(ctx, "review updated",
			slog.String("review_id", existing.ID),
			slog.String("product_id", productID),
			slog.Int("rating", score),
			slog.Float64("average_rating", rating.AverageRating),
		)
		return existing, nil

	case errors.Is(err, apperrors.ErrNotFound):
		review := &domain.Review{
			ID:        uuid.New().String(),
			ProductID: productID,
			UserID:    userID,
			Rating:    score,
			Comment:   comment,
			CreatedAt: now,
			UpdatedAt: now,
		}

		rating.Add(score)
		if err := s.reviews.CreateWithRating(ctx, review, rating); err != nil {
			return nil, fmt.Errorf("create review: %w", err)
		}

		s.publishWritten(ctx, review, rating)
		s.logger.InfoContext(ctx, "review created",
			slog.String("review_id", review.ID),
			slog.String("product_id", productID),
			slog.Int("rating", score),
			slog.Float64("average_rating", rating.AverageRating),
		)
		return review, nil

	default:
		return nil, fmt.Errorf("get existing review: %w", err)
	}
}

// DeleteReview removes the user's review and shrinks the rating summary.
// When the last review goes, the average resets to zero.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, productID string) error {
	review, err := s.reviews.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("review", productID)
		}
		return fmt.Errorf("get review for delete: %w", err)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("product", productID)
		}
		return fmt.Errorf("get product for review delete: %w", err)
	}

	rating := product.Rating
	rating.Remove(review.Rating)

	if err := s.reviews.DeleteWithRating(ctx, review.ID, productID, rating); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("product_id", productID),
		slog.Float64("average_rating", rating.AverageRating),
	)

	return nil
}

// GetOwnReview retrieves the caller's review of a product.
func (s *ReviewService) GetOwnReview(ctx context.Context, userID, productID string) (*domain.Review, error) {
	review, err := s.reviews.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("review", productID)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// ListReviews returns a product's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	reviews, total, err := s.reviews.ListByProduct(ctx, productID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

func (s *ReviewService) publishWritten(ctx context.Context, review *domain.Review, rating domain.Rating) {
	if err := s.producer.PublishReviewWritten(ctx, review, rating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.written event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}
}
