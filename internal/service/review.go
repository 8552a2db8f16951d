package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/moderation"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// Review rating bounds.
const (
	minRating = 1
	maxRating = 5
)

// ReviewService implements the business logic for product reviews.
type ReviewService struct {
	reviews   repository.ReviewRepository
	products  repository.ProductRepository
	moderator moderation.Moderator
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, moderator moderation.Moderator, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		moderator: moderator,
		logger:    logger,
	}
}

// CreateReviewInput holds the parameters for posting a review.
type CreateReviewInput struct {
	ProductID string
	UserID    string
	Rating    int
	Comment   string
}

// CreateReview posts a review on a product.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, apperrors.FieldError("rating", "Rating must be between 1 and 5.")
	}
	if input.Comment != "" && !s.moderator.Acceptable(input.Comment) {
		return nil, apperrors.FieldError("comment", "Comment contains prohibited or inappropriate content.")
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product for review: %w", err)
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.InfoContext(ctx, "review posted",
		slog.String("product_id", input.ProductID),
		slog.Int("rating", input.Rating),
	)

	return review, nil
}

// ListReviews returns the reviews on a product, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// DeleteReview removes a review.
func (s *ReviewService) DeleteReview(ctx context.Context, id string) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
