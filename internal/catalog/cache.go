package catalog

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

var (
	cacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_cache_products",
		Help: "Number of products currently held in the catalog cache.",
	})
	refreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_refresh_failures_total",
		Help: "Total number of failed catalog refresh attempts.",
	})
)

// Fetcher retrieves the current product list from the catalog provider.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

// Cache holds an in-memory snapshot of the product catalog. Refresh
// replaces the snapshot wholesale; a failed refresh keeps the previous
// snapshot so reads stay available while the provider is down.
type Cache struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu          sync.RWMutex
	products    []domain.Product
	byID        map[int64]*domain.Product
	refreshedAt time.Time
}

// NewCache creates an empty catalog cache backed by the given fetcher.
func NewCache(fetcher Fetcher, logger *slog.Logger) *Cache {
	return &Cache{
		fetcher: fetcher,
		logger:  logger,
		byID:    make(map[int64]*domain.Product),
	}
}

// Refresh fetches the catalog and replaces the cached snapshot. On
// fetch failure the previous snapshot is kept and the error returned.
func (c *Cache) Refresh(ctx context.Context) error {
	products, err := c.fetcher.FetchProducts(ctx)
	if err != nil {
		refreshFailures.Inc()
		c.logger.WarnContext(ctx, "catalog refresh failed, keeping previous snapshot",
			slog.String("error", err.Error()),
		)
		return err
	}

	byID := make(map[int64]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.refreshedAt = time.Now().UTC()
	c.mu.Unlock()

	cacheSize.Set(float64(len(products)))
	c.logger.InfoContext(ctx, "catalog refreshed",
		slog.Int("products", len(products)),
	)
	return nil
}

// Products returns a copy of the cached product list.
func (c *Cache) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks up a product by ID. It returns a not-found error when the
// product is absent from the current snapshot.
func (c *Cache) Get(productID int64) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.byID[productID]
	if !ok {
		return nil, apperrors.NotFound("product", strconv.FormatInt(productID, 10))
	}
	cp := *p
	return &cp, nil
}

// Filter returns cached products matching the given category and
// search term. Empty arguments match everything; the search is a
// case-insensitive substring match on name and description.
func (c *Cache) Filter(category, search string) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))

	var out []domain.Product
	for i := range c.products {
		p := &c.products[i]
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// Categories returns the distinct product categories in sorted order.
func (c *Cache) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for i := range c.products {
		if cat := c.products[i].Category; cat != "" {
			seen[cat] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// RefreshedAt returns when the snapshot was last replaced. The zero
// time means no refresh has succeeded yet.
func (c *Cache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
