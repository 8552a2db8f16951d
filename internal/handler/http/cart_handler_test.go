package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/service"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// =============================================================================
// Mock CartRepository
// =============================================================================

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) Get(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	args := m.Called(ctx, ownerKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepo) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	args := m.Called(ctx, cart, expectedVersion)
	return args.Error(0)
}

func (m *mockCartRepo) Delete(ctx context.Context, ownerKey string) error {
	args := m.Called(ctx, ownerKey)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

const testSessionID = "session-abc-123"

func cartRouter(carts *mockCartRepo, products *mockProductRepo) *chi.Mux {
	logger := handlerTestLogger()
	svc := service.NewCartService(carts, products, handlerTestEventProducer(), logger)
	handler := NewCartHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(OptionalAuth(sellerAuth()))
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddItem)
		r.Put("/items/{productId}", handler.UpdateItem)
		r.Delete("/items/{productId}", handler.RemoveItem)
		r.Post("/checkout", handler.Checkout)
	})
	return r
}

func sessionRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, testSessionID)
	return req
}

// =============================================================================
// GET /api/v1/cart - GetCart
// =============================================================================

func TestGetCart_AnonymousSession(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	router := cartRouter(carts, products)

	ownerKey := "session:" + testSessionID
	carts.On("Get", mock.Anything, ownerKey).Return(nil, apperrors.NotFound("cart", ownerKey))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sessionRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	carts.AssertExpectations(t)
}

func TestGetCart_NoUserOrSession(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	router := cartRouter(carts, products)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	carts.AssertNotCalled(t, "Get")
}

// =============================================================================
// POST /api/v1/cart/items - AddItem
// =============================================================================

func TestAddItem_SessionCart(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	router := cartRouter(carts, products)

	product := sampleProduct()
	ownerKey := "session:" + testSessionID

	carts.On("Get", mock.Anything, ownerKey).Return(nil, apperrors.NotFound("cart", ownerKey))
	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 0).Return(nil)

	body, _ := json.Marshal(AddItemRequest{ProductID: product.ID, Quantity: 2})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	carts.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestAddItem_AuthenticatedCart(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	router := cartRouter(carts, products)

	product := sampleProduct()
	ownerKey := "user:" + testSellerID

	carts.On("Get", mock.Anything, ownerKey).Return(nil, apperrors.NotFound("cart", ownerKey))
	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 0).Return(nil)

	body, _ := json.Marshal(AddItemRequest{ProductID: product.ID, Quantity: 2})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	carts.AssertExpectations(t)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	router := cartRouter(carts, products)

	product := sampleProduct()
	product.Quantity = 3
	ownerKey := "session:" + testSessionID

	carts.On("Get", mock.Anything, ownerKey).Return(nil, apperrors.NotFound("cart", ownerKey))
	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	body, _ := json.Marshal(AddItemRequest{ProductID: product.ID, Quantity: 5})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "Not enough stock. Available stock is 3.", resp.Error.Fields["quantity"])
	carts.AssertNotCalled(t, "SaveIfVersion")
}

func TestAddItem_ZeroQuantityRejected(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	router := cartRouter(carts, products)

	body, _ := json.Marshal(AddItemRequest{ProductID: sampleProduct().ID, Quantity: 0})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	carts.AssertNotCalled(t, "Get")
}

// =============================================================================
// POST /api/v1/cart/checkout - Checkout
// =============================================================================

func TestCheckout_Success(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	router := cartRouter(carts, products)

	product := sampleProduct()
	ownerKey := "session:" + testSessionID
	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:        "cart-001",
		SessionID: testSessionID,
		Items: []domain.CartItem{
			{ProductID: product.ID, Name: product.Name, PriceCents: product.PriceCents, Quantity: 2},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	carts.On("Get", mock.Anything, ownerKey).Return(cart, nil)
	products.On("DecrementStock", mock.Anything, cart.Items).Return(nil)
	carts.On("Delete", mock.Anything, ownerKey).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/cart/checkout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	carts.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestCheckout_MissingCart(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	router := cartRouter(carts, products)

	ownerKey := "session:" + testSessionID
	carts.On("Get", mock.Anything, ownerKey).Return(nil, apperrors.NotFound("cart", ownerKey))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/cart/checkout", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	products.AssertNotCalled(t, "DecrementStock")
}
