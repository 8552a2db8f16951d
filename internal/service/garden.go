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

// GardenService implements the business logic for community gardens and the
// farmer profiles attached to product listings.
type GardenService struct {
	gardens repository.GardenRepository
	farmers repository.FarmerRepository
	logger  *slog.Logger
}

// NewGardenService creates a new garden service.
func NewGardenService(gardens repository.GardenRepository, farmers repository.FarmerRepository, logger *slog.Logger) *GardenService {
	return &GardenService{
		gardens: gardens,
		farmers: farmers,
		logger:  logger,
	}
}

// GardenInput holds the parameters for creating or updating a garden.
type GardenInput struct {
	Name        string
	Location    string
	Size        string
	Description string
}

// CreateGarden creates a new garden.
func (s *GardenService) CreateGarden(ctx context.Context, input *GardenInput) (*domain.Garden, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.FieldError("name", "Name cannot be empty.")
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, apperrors.FieldError("location", "Location cannot be empty.")
	}

	now := time.Now().UTC()
	garden := &domain.Garden{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Location:    strings.TrimSpace(input.Location),
		Size:        input.Size,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.gardens.Create(ctx, garden); err != nil {
		return nil, fmt.Errorf("create garden: %w", err)
	}

	s.logger.InfoContext(ctx, "garden created", slog.String("garden_id", garden.ID))

	return garden, nil
}

// GetGarden retrieves a garden by its ID.
func (s *GardenService) GetGarden(ctx context.Context, id string) (*domain.Garden, error) {
	garden, err := s.gardens.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get garden: %w", err)
	}
	return garden, nil
}

// ListGardens returns gardens with the total count.
func (s *GardenService) ListGardens(ctx context.Context, page, perPage int) ([]domain.Garden, int, error) {
	gardens, total, err := s.gardens.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list gardens: %w", err)
	}
	return gardens, total, nil
}

// UpdateGarden modifies a garden.
func (s *GardenService) UpdateGarden(ctx context.Context, id string, input *GardenInput) (*domain.Garden, error) {
	garden, err := s.gardens.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get garden for update: %w", err)
	}

	if input.Name != "" {
		garden.Name = strings.TrimSpace(input.Name)
	}
	if input.Location != "" {
		garden.Location = strings.TrimSpace(input.Location)
	}
	if input.Size != "" {
		garden.Size = input.Size
	}
	if input.Description != "" {
		garden.Description = input.Description
	}

	if err := s.gardens.Update(ctx, garden); err != nil {
		return nil, fmt.Errorf("update garden: %w", err)
	}

	return garden, nil
}

// DeleteGarden removes a garden.
func (s *GardenService) DeleteGarden(ctx context.Context, id string) error {
	if err := s.gardens.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete garden: %w", err)
	}
	return nil
}

// FarmerInput holds the parameters for creating or updating a farmer profile.
type FarmerInput struct {
	ProductID string
	Name      string
	Email     string
	Phone     string
}

// CreateFarmer attaches a farmer profile to a product listing.
func (s *GardenService) CreateFarmer(ctx context.Context, input *FarmerInput) (*domain.Farmer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.FieldError("name", "Name cannot be empty.")
	}
	if input.ProductID == "" {
		return nil, apperrors.FieldError("product", "Product must exist for the farmer profile.")
	}

	farmer := &domain.Farmer{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Name:      strings.TrimSpace(input.Name),
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.farmers.Create(ctx, farmer); err != nil {
		return nil, fmt.Errorf("create farmer: %w", err)
	}

	return farmer, nil
}

// ListFarmersByProduct returns the farmer profiles behind a product.
func (s *GardenService) ListFarmersByProduct(ctx context.Context, productID string) ([]domain.Farmer, error) {
	farmers, err := s.farmers.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	return farmers, nil
}

// UpdateFarmer modifies a farmer profile.
func (s *GardenService) UpdateFarmer(ctx context.Context, id string, input *FarmerInput) (*domain.Farmer, error) {
	farmer, err := s.farmers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get farmer for update: %w", err)
	}

	if input.Name != "" {
		farmer.Name = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		farmer.Email = input.Email
	}
	if input.Phone != "" {
		farmer.Phone = input.Phone
	}

	if err := s.farmers.Update(ctx, farmer); err != nil {
		return nil, fmt.Errorf("update farmer: %w", err)
	}

	return farmer, nil
}

// DeleteFarmer removes a farmer profile.
func (s *GardenService) DeleteFarmer(ctx context.Context, id string) error {
	if err := s.farmers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete farmer: %w", err)
	}
	return nil
}
