package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/event"
	"github.com/freshmarket/freshmarket/internal/moderation"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
	pkgkafka "github.com/freshmarket/freshmarket/pkg/kafka"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, items []domain.CartItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestProducer builds an event producer pointing at an unreachable broker.
// Publish failures never fail operations, so tests proceed without Kafka.
func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newProductTestService(repo *mockProductRepository) *ProductService {
	return NewProductService(repo, moderation.NewLexiconModerator("contraband"), newTestProducer(), newTestLogger())
}

func validCreateInput() *CreateProductInput {
	return &CreateProductInput{
		SellerID:    "seller-001",
		Name:        "Heirloom Tomatoes",
		Description: "Vine-ripened heirloom tomatoes grown without pesticides.",
		Price:       "4.50",
		Quantity:    25,
	}
}

func fieldReason(t *testing.T, err error, field string) string {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	return appErr.Fields[field]
}

// --- Tests ---

func TestProductService_CreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductTestService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.CreateProduct(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, int64(450), product.PriceCents)
	assert.Equal(t, 25, product.Quantity)
	repo.AssertExpectations(t)
}

func TestProductService_CreateProduct_PriceRejections(t *testing.T) {
	tests := []struct {
		name   string
		price  string
		reason string
	}{
		{"negative", "-1.00", "Price cannot be negative."},
		{"zero", "0", "Price must be between 0.01 and 99999.99."},
		{"too high", "100000.00", "Price must be between 0.01 and 99999.99."},
		{"too precise below minimum", "0.005", "Price must be between 0.01 and 99999.99."},
		{"three decimals in range", "49.999", "Price cannot have more than two decimal places."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockProductRepository)
			svc := newProductTestService(repo)

			input := validCreateInput()
			input.Price = tt.price

			_, err := svc.CreateProduct(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, tt.reason, fieldReason(t, err, "price"))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_CreateProduct_MalformedPrice(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductTestService(repo)

	input := validCreateInput()
	input.Price = "not-a-number"

	_, err := svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "Price must be a valid number.", fieldReason(t, err, "price"))
}

func TestProductService_CreateProduct_FieldRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateProductInput)
		field  string
		reason string
	}{
		{
			"empty name",
			func(in *CreateProductInput) { in.Name = "  " },
			"name", "Name cannot be empty.",
		},
		{
			"negative quantity",
			func(in *CreateProductInput) { in.Quantity = -1 },
			"quantity", "Quantity cannot be negative.",
		},
		{
			"quantity too high",
			func(in *CreateProductInput) { in.Quantity = 10_001 },
			"quantity", "Quantity cannot exceed 10,000.",
		},
		{
			"short description",
			func(in *CreateProductInput) { in.Description = "too short" },
			"description", "Description is too short. It should be at least 10 characters long.",
		},
		{
			"prohibited description",
			func(in *CreateProductInput) { in.Description = "definitely not contraband produce" },
			"description", "Description contains prohibited or inappropriate content.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockProductRepository)
			svc := newProductTestService(repo)

			input := validCreateInput()
			tt.mutate(input)

			_, err := svc.CreateProduct(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, tt.reason, fieldReason(t, err, tt.field))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_UpdateProduct_NotOwner(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductTestService(repo)

	existing := &domain.Product{ID: "prod-001", SellerID: "seller-001", Name: "Tomatoes", Description: "A fine description.", PriceCents: 450, Quantity: 5}
	repo.On("GetByID", mock.Anything, "prod-001").Return(existing, nil)

	_, err := svc.UpdateProduct(context.Background(), "prod-001", "seller-999", &UpdateProductInput{})
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_UpdateProduct_RevalidatesRules(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductTestService(repo)

	existing := &domain.Product{ID: "prod-001", SellerID: "seller-001", Name: "Tomatoes", Description: "A fine description.", PriceCents: 450, Quantity: 5}
	repo.On("GetByID", mock.Anything, "prod-001").Return(existing, nil)

	badPrice := "-2.00"
	_, err := svc.UpdateProduct(context.Background(), "prod-001", "seller-001", &UpdateProductInput{Price: &badPrice})
	require.Error(t, err)
	assert.Equal(t, "Price cannot be negative.", fieldReason(t, err, "price"))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_DeleteProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newProductTestService(repo)

	existing := &domain.Product{ID: "prod-001", SellerID: "seller-001"}
	repo.On("GetByID", mock.Anything, "prod-001").Return(existing, nil)
	repo.On("Delete", mock.Anything, "prod-001").Return(nil)

	err := svc.DeleteProduct(context.Background(), "prod-001", "seller-001")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
