package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client submits orders to the order provider.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
}

// NewClient creates an order client for the given provider base URL.
func NewClient(httpClient HTTPDoer, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Submit posts an order to the provider. Any transport failure,
// open circuit, or non-2xx response is reported as an order-rejected
// error so the caller can keep the cart and let the customer retry.
func (c *Client) Submit(ctx context.Context, req domain.OrderRequest) (*domain.OrderConfirmation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(ctx, httpReq)
	if err != nil {
		return nil, apperrors.OrderRejected(fmt.Errorf("call order service: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperrors.OrderRejected(httpclient.ParseResponseError(resp, "order"))
	}

	var conf domain.OrderConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
		return nil, apperrors.OrderRejected(fmt.Errorf("decode order response: %w", err))
	}

	return &conf, nil
}
