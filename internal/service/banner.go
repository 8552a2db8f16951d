package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// BannerService implements the business logic for promotional banners and
// product categories.
type BannerService struct {
	banners    repository.BannerRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

// NewBannerService creates a new banner service.
func NewBannerService(banners repository.BannerRepository, categories repository.CategoryRepository, logger *slog.Logger) *BannerService {
	return &BannerService{
		banners:    banners,
		categories: categories,
		logger:     logger,
	}
}

// BannerInput holds the parameters for creating or updating a banner.
type BannerInput struct {
	Title      string
	ImageURL   string
	LinkURL    string
	Active     bool
	CategoryID *string
	Countdown  *time.Time
}

// CreateBanner creates a new promotional banner.
func (s *BannerService) CreateBanner(ctx context.Context, input *BannerInput) (*domain.Banner, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.FieldError("title", "Title cannot be empty.")
	}
	if input.ImageURL == "" {
		return nil, apperrors.FieldError("image", "Image is required.")
	}
	if input.Countdown != nil && input.Countdown.Before(time.Now().UTC()) {
		return nil, apperrors.FieldError("countdown", "Countdown must be in the future.")
	}

	banner := &domain.Banner{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(input.Title),
		ImageURL:   input.ImageURL,
		LinkURL:    input.LinkURL,
		Active:     input.Active,
		CategoryID: input.CategoryID,
		Countdown:  input.Countdown,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.banners.Create(ctx, banner); err != nil {
		return nil, fmt.Errorf("create banner: %w", err)
	}

	s.logger.InfoContext(ctx, "banner created", slog.String("banner_id", banner.ID))

	return banner, nil
}

// ListLiveBanners returns the banners currently eligible for display.
func (s *BannerService) ListLiveBanners(ctx context.Context) ([]domain.Banner, error) {
	banners, err := s.banners.ListLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live banners: %w", err)
	}
	return banners, nil
}

// UpdateBanner modifies a banner.
func (s *BannerService) UpdateBanner(ctx context.Context, id string, input *BannerInput) (*domain.Banner, error) {
	banner, err := s.banners.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get banner for update: %w", err)
	}

	if input.Title != "" {
		banner.Title = strings.TrimSpace(input.Title)
	}
	if input.ImageURL != "" {
		banner.ImageURL = input.ImageURL
	}
	if input.LinkURL != "" {
		banner.LinkURL = input.LinkURL
	}
	banner.Active = input.Active
	if input.CategoryID != nil {
		banner.CategoryID = input.CategoryID
	}
	if input.Countdown != nil {
		banner.Countdown = input.Countdown
	}

	if err := s.banners.Update(ctx, banner); err != nil {
		return nil, fmt.Errorf("update banner: %w", err)
	}

	return banner, nil
}

// DeleteBanner removes a banner.
func (s *BannerService) DeleteBanner(ctx context.Context, id string) error {
	if err := s.banners.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}

// CreateCategory creates a product category.
func (s *BannerService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.FieldError("name", "Name cannot be empty.")
	}

	category := &domain.Category{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

// ListCategories returns every category ordered by name.
func (s *BannerService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category.
func (s *BannerService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
