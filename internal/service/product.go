// Package service implements the business logic behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/event"
	"github.com/freshmarket/freshmarket/internal/moderation"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
	"github.com/freshmarket/freshmarket/pkg/money"
)

// ProductService implements the business logic for product listings.
type ProductService struct {
	repo      repository.ProductRepository
	moderator moderation.Moderator
	producer  *event.Producer
	logger    *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, moderator moderation.Moderator, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		moderator: moderator,
		producer:  producer,
		logger:    logger,
	}
}

// CreateProductInput holds the parameters for creating a product. Price is a
// decimal string such as "49.99".
type CreateProductInput struct {
	SellerID    string
	Name        string
	Description string
	Price       string
	Quantity    int
	CategoryID  *string
	ImageURL    string
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *string
	Quantity    *int
	CategoryID  *string
	ImageURL    *string
}

// CreateProduct validates and persists a new listing. A rejected submission
// is never persisted; the returned error carries the field rejections.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	cents, tooPrecise, err := parsePrice(input.Price)
	if err != nil {
		return nil, apperrors.FieldError("price", "Price must be a valid number.")
	}

	fields := domain.ProductFields{
		Name:            input.Name,
		Description:     input.Description,
		PriceCents:      cents,
		PriceTooPrecise: tooPrecise,
		Quantity:        input.Quantity,
	}
	if rejections := domain.ValidateProduct(fields); rejections != nil {
		return nil, apperrors.Validation(rejections)
	}
	if !s.moderator.Acceptable(input.Description) {
		return nil, apperrors.Validation(domain.ProfanityRejection())
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		SellerID:    input.SellerID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		PriceCents:  cents,
		Quantity:    input.Quantity,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("seller_id", product.SellerID),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns products matching the filter with the total count.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// UpdateProduct applies the non-nil input fields to an existing listing and
// re-runs the full rule set. Only the owning seller may update a listing.
func (s *ProductService) UpdateProduct(ctx context.Context, id, sellerID string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if product.SellerID != sellerID {
		return nil, apperrors.Forbidden("only the listing owner can update it")
	}

	tooPrecise := false
	if input.Price != nil {
		cents, precise, err := parsePrice(*input.Price)
		if err != nil {
			return nil, apperrors.FieldError("price", "Price must be a valid number.")
		}
		product.PriceCents = cents
		tooPrecise = precise
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	fields := domain.ProductFields{
		Name:            product.Name,
		Description:     product.Description,
		PriceCents:      product.PriceCents,
		PriceTooPrecise: tooPrecise,
		Quantity:        product.Quantity,
	}
	if rejections := domain.ValidateProduct(fields); rejections != nil {
		return nil, apperrors.Validation(rejections)
	}
	if !s.moderator.Acceptable(product.Description) {
		return nil, apperrors.Validation(domain.ProfanityRejection())
	}

	product.Name = strings.TrimSpace(product.Name)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// DeleteProduct removes a listing. Only the owning seller may delete it.
func (s *ProductService) DeleteProduct(ctx context.Context, id, sellerID string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if product.SellerID != sellerID {
		return apperrors.Forbidden("only the listing owner can delete it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}

// parsePrice converts a decimal price string to cents. Inputs with more than
// two fractional digits are flagged rather than rejected outright, so the
// rule ordering in domain.ValidateProduct stays intact; the value is parsed
// with the excess digits truncated for the remaining range checks.
func parsePrice(price string) (int64, bool, error) {
	cents, err := money.Parse(price)
	if err == nil {
		return cents, false, nil
	}
	if !errors.Is(err, money.ErrTooManyDecimals) {
		return 0, false, err
	}

	trimmed := strings.TrimSpace(price)
	if i := strings.IndexByte(trimmed, '.'); i >= 0 && len(trimmed) > i+3 {
		trimmed = trimmed[:i+3]
	}
	cents, err = money.Parse(trimmed)
	if err != nil {
		return 0, true, err
	}
	return cents, true, nil
}
