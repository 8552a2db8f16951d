package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/event"
	"github.com/freshmarket/freshmarket/internal/moderation"
	"github.com/freshmarket/freshmarket/internal/repository"
	"github.com/freshmarket/freshmarket/internal/service"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
	"github.com/freshmarket/freshmarket/pkg/httputil"
	pkgkafka "github.com/freshmarket/freshmarket/pkg/kafka"
	"github.com/freshmarket/freshmarket/pkg/middleware"
)

// =============================================================================
// Mock ProductRepository
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) DecrementStock(ctx context.Context, items []domain.CartItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

const testSellerID = "550e8400-e29b-41d4-a716-446655440000"

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func handlerTestEventProducer() *event.Producer {
	logger := handlerTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

// sellerAuth authenticates every request as a fixed seller.
func sellerAuth() func(http.Handler) http.Handler {
	return middleware.Auth(func(token string) (*middleware.Claims, error) {
		return &middleware.Claims{UserID: testSellerID, Role: domain.RoleSeller}, nil
	})
}

func productTestHandler(repo *mockProductRepo) *ProductHandler {
	logger := handlerTestLogger()
	svc := service.NewProductService(repo, moderation.NewLexiconModerator(), handlerTestEventProducer(), logger)
	return NewProductHandler(svc, logger)
}

func productRouter(handler *ProductHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/{id}", handler.GetProduct)
		r.Group(func(r chi.Router) {
			r.Use(sellerAuth())
			r.Post("/", handler.CreateProduct)
			r.Put("/{id}", handler.UpdateProduct)
			r.Delete("/{id}", handler.DeleteProduct)
		})
	})
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:          "550e8400-e29b-41d4-a716-446655440001",
		SellerID:    testSellerID,
		Name:        "Heritage Carrots",
		Description: "Sweet heritage carrots grown without pesticides.",
		PriceCents:  450,
		Quantity:    25,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// =============================================================================
// GET /api/v1/products - ListProducts
// =============================================================================

func TestListProducts_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	repo.On("List", mock.Anything, mock.AnythingOfType("repository.ProductFilter")).
		Return([]domain.Product{*sampleProduct()}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1&per_page=20", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp httputil.PaginatedResponse[domain.Product]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.TotalCount)
	repo.AssertExpectations(t)
}

func TestListProducts_InvalidPerPage(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?per_page=500", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	repo.AssertNotCalled(t, "List")
}

func TestListProducts_MinPriceAboveMaxPrice(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?min_price=500&max_price=100", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

// =============================================================================
// GET /api/v1/products/{id} - GetProduct
// =============================================================================

func TestGetProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	product := sampleProduct()
	repo.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.ID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestGetProduct_InvalidUUID(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	repo.AssertNotCalled(t, "GetByID")
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	id := "550e8400-e29b-41d4-a716-446655440099"
	repo.On("GetByID", mock.Anything, id).Return(nil, apperrors.NotFound("product", id))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// =============================================================================
// POST /api/v1/products - CreateProduct
// =============================================================================

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	body, _ := json.Marshal(CreateProductRequest{
		Name:        "Heritage Carrots",
		Description: "Sweet heritage carrots grown without pesticides.",
		Price:       "4.50",
		Quantity:    25,
	})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/products", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestCreateProduct_Unauthenticated(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	body, _ := json.Marshal(CreateProductRequest{
		Name:        "Heritage Carrots",
		Description: "Sweet heritage carrots grown without pesticides.",
		Price:       "4.50",
		Quantity:    25,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateProduct_InvalidJSON(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/products", []byte(`{invalid`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid request body")
}

func TestCreateProduct_MissingFields(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	// Missing name, description and price.
	body, _ := json.Marshal(CreateProductRequest{Quantity: 5})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/products", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	body, _ := json.Marshal(CreateProductRequest{
		Name:        "Heritage Carrots",
		Description: "Sweet heritage carrots grown without pesticides.",
		Price:       "-4.50",
		Quantity:    25,
	})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/products", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "Price cannot be negative.", resp.Error.Fields["price"])
	repo.AssertNotCalled(t, "Create")
}

// =============================================================================
// PUT /api/v1/products/{id} - UpdateProduct
// =============================================================================

func TestUpdateProduct_NotOwner(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	product := sampleProduct()
	product.SellerID = "550e8400-e29b-41d4-a716-446655440777"
	repo.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	name := "Renamed"
	body, _ := json.Marshal(UpdateProductRequest{Name: &name})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/api/v1/products/"+product.ID, body))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	repo.AssertNotCalled(t, "Update")
}

// =============================================================================
// DELETE /api/v1/products/{id} - DeleteProduct
// =============================================================================

func TestDeleteProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(productTestHandler(repo))

	product := sampleProduct()
	repo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Delete", mock.Anything, product.ID).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/v1/products/"+product.ID, nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}
