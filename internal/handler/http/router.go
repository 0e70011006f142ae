package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	catalogCache *catalog.Cache,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.ContextLogger(logger))
	r.Use(middleware.CORS)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartService, checkoutService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)
	catalogHandler := NewCatalogHandler(catalogCache, logger)

	// Catalog endpoints are session-free; the same cached snapshot is
	// served to every visitor.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)
		r.Get("/categories", catalogHandler.ListCategories)
		r.Post("/refresh", catalogHandler.Refresh)
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Patch("/items/{index}", cartHandler.UpdateQuantity)
		r.Delete("/items/{index}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionFromHeader)

		r.Get("/", checkoutHandler.GetState)
		r.Post("/", checkoutHandler.StartCheckout)
		r.Delete("/", checkoutHandler.CancelCheckout)

		r.Post("/order", checkoutHandler.SubmitOrder)
	})

	return r
}
