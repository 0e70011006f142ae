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

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

// ============================================================================
// Mock CartRepository
// ============================================================================

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// ============================================================================
// Test helpers
// ============================================================================

type staticFetcher struct {
	products []domain.Product
}

func (f *staticFetcher) FetchProducts(_ context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func testCatalog(t *testing.T) *catalog.Cache {
	t.Helper()
	cache := catalog.NewCache(&staticFetcher{products: []domain.Product{
		{ID: 1, Name: "Widget", Price: 1999, Category: "tools", Stock: 5},
		{ID: 2, Name: "Gadget", Price: 4500, Category: "tools", Stock: 0},
	}}, testLogger())
	require.NoError(t, cache.Refresh(context.Background()))
	return cache
}

func testCartHandler(t *testing.T, repo *mockCartRepository) *CartHandler {
	t.Helper()
	cache := testCatalog(t)
	producer := testEventProducer()
	logger := testLogger()
	svc := service.NewCartService(repo, cache, producer, logger)
	checkoutSvc := service.NewCheckoutService(repo, new(mockOrderSubmitter), cache, producer, logger)
	return NewCartHandler(svc, checkoutSvc, logger)
}

// setupCartRouter creates a chi router matching the production route
// layout, including the SessionFromHeader and ContentTypeJSON
// middleware so header handling is tested end-to-end.
func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionFromHeader)

		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)

		r.Post("/items", handler.AddItem)
		r.Patch("/items/{index}", handler.UpdateQuantity)
		r.Delete("/items/{index}", handler.RemoveItem)
	})
	return r
}

// decodeResponse reads the response body into the standard Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// sampleCart returns a cart with one item, suitable for test assertions.
func sampleCart() *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		SessionID: "sess-123",
		Items: []domain.CartItem{
			{
				ProductID: 1,
				Name:      "Widget",
				Price:     1999,
				Quantity:  2,
				MaxStock:  5,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Session-ID", "sess-123")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ============================================================================
// GET /api/v1/cart
// ============================================================================

func TestGetCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)

	rec := doJSON(router, http.MethodGet, "/api/v1/cart", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestGetCart_NoStoredCart_ReturnsEmpty(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Get", mock.Anything, "sess-123").Return(nil, apperrors.NotFound("cart", "sess-123"))

	rec := doJSON(router, http.MethodGet, "/api/v1/cart", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

func TestGetCart_MissingSessionHeader_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

// ============================================================================
// POST /api/v1/cart/items
// ============================================================================

func TestAddItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Get", mock.Anything, "sess-123").Return(nil, apperrors.NotFound("cart", "sess-123"))
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	rec := doJSON(router, http.MethodPost, "/api/v1/cart/items", `{"product_id": 1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

func TestAddItem_OutOfStock_Returns409(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Get", mock.Anything, "sess-123").Return(nil, apperrors.NotFound("cart", "sess-123"))

	rec := doJSON(router, http.MethodPost, "/api/v1/cart/items", `{"product_id": 2}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
}

func TestAddItem_UnknownProduct_Returns404(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	rec := doJSON(router, http.MethodPost, "/api/v1/cart/items", `{"product_id": 42}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestAddItem_MissingProductID_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	rec := doJSON(router, http.MethodPost, "/api/v1/cart/items", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestAddItem_MalformedBody_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	rec := doJSON(router, http.MethodPost, "/api/v1/cart/items", `{{`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_WrongContentType_Returns415(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{"product_id": 1}`)))
	req.Header.Set("X-Session-ID", "sess-123")
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// PATCH /api/v1/cart/items/{index}
// ============================================================================

func TestUpdateQuantity_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	rec := doJSON(router, http.MethodPatch, "/api/v1/cart/items/0", `{"delta": 1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestUpdateQuantity_ExceedsStock_Returns409(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)

	rec := doJSON(router, http.MethodPatch, "/api/v1/cart/items/0", `{"delta": 10}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
}

func TestUpdateQuantity_NonIntegerIndex_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	rec := doJSON(router, http.MethodPatch, "/api/v1/cart/items/abc", `{"delta": 1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestUpdateQuantity_IndexOutOfRange_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)

	rec := doJSON(router, http.MethodPatch, "/api/v1/cart/items/7", `{"delta": 1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// DELETE /api/v1/cart/items/{index}
// ============================================================================

func TestRemoveItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	rec := doJSON(router, http.MethodDelete, "/api/v1/cart/items/0", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

// ============================================================================
// DELETE /api/v1/cart
// ============================================================================

func TestClearCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(t, repo))

	repo.On("Delete", mock.Anything, "sess-123").Return(nil)

	rec := doJSON(router, http.MethodDelete, "/api/v1/cart", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
