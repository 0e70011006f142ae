package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/pkg/httputil"
)

// CatalogHandler handles HTTP requests for catalog endpoints.
type CatalogHandler struct {
	cache  *catalog.Cache
	logger *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cache *catalog.Cache, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		cache:  cache,
		logger: logger,
	}
}

type catalogResponse struct {
	Products    any       `json:"products"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// ListProducts handles GET /api/v1/catalog?category=&search=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	products := h.cache.Filter(category, search)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: catalogResponse{
			Products:    products,
			RefreshedAt: h.cache.RefreshedAt(),
		},
	})
}

// ListCategories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"categories": h.cache.Categories()},
	})
}

// Refresh handles POST /api/v1/catalog/refresh
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Refresh(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{
			"status":       "refreshed",
			"refreshed_at": h.cache.RefreshedAt(),
		},
	})
}
