// Package printful is a thin client for the Printful store API used by the
// club shop.
package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.printful.com"

type Config struct {
	APIKey  string
	StoreID string
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
}

// APIError is a non 2xx answer from Printful.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("printful answered %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	apiKey  string
	storeID string
	baseURL string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		storeID: cfg.StoreID,
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// Configured reports whether an API key was provided.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) StoreProducts(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/store/products", nil)
}

func (c *Client) StoreProduct(ctx context.Context, productID int) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/store/products/%d", productID), nil)
}

func (c *Client) CreateOrder(ctx context.Context, order interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/orders", order)
}

func (c *Client) ConfirmOrder(ctx context.Context, orderID int, payload interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/confirm", orderID), payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		js, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode printful request: %w", err)
		}
		body = bytes.NewReader(js)
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build printful url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build printful request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.storeID != "" {
		req.Header.Set("X-PF-Store-Id", c.storeID)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("printful %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read printful response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("printful %s %s: response is not JSON", method, path)
	}
	return raw, nil
}
