package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.BreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client fetches the product catalog from the catalog provider.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
}

// NewClient creates a catalog client for the given provider base URL.
func NewClient(httpClient HTTPDoer, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// FetchProducts retrieves the full product list. Any transport or
// provider failure is reported as a catalog-unavailable error.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, apperrors.CatalogUnavailable(fmt.Errorf("call catalog service: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.CatalogUnavailable(httpclient.ParseResponseError(resp, "catalog"))
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, apperrors.CatalogUnavailable(fmt.Errorf("decode catalog response: %w", err))
	}

	return products, nil
}
