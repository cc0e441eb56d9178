// Package productclient is the order service's view of the product service:
// a plain HTTP client against the configured base URL. There is no service
// discovery, no auth, and no retry on failure; a non-success status surfaces
// as a sentinel error and the caller decides what to do.
package productclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/safar/go-shop-services/internal/models"
)

var (
	// ErrProductNotFound covers any non-200 response to a product fetch,
	// matching how the order workflow treats an unreachable product.
	ErrProductNotFound = errors.New("remote product not found")

	// ErrStockUpdateFailed covers any non-200 response to a stock update.
	ErrStockUpdateFailed = errors.New("remote stock update failed")
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for the product service collection at baseURL,
// e.g. "http://localhost:8080/products".
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	url := fmt.Sprintf("%s/%d/", c.BaseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build product request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrProductNotFound
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode product %d: %w", id, err)
	}

	return &product, nil
}

func (c *Client) UpdateStock(ctx context.Context, id int64, stock int) (*models.Product, error) {
	url := fmt.Sprintf("%s/%d/stock/", c.BaseURL, id)

	body, err := json.Marshal(map[string]int{"stock": stock})
	if err != nil {
		return nil, fmt.Errorf("encode stock update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build stock update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update stock for product %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrStockUpdateFailed
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode updated product %d: %w", id, err)
	}

	return &product, nil
}
