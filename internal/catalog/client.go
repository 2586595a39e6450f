package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrMissingCredential is returned when a call that needs a bearer token is
// made without one.
var ErrMissingCredential = errors.New("no token found")

// FetchError is a transport failure or a non-2xx answer on a read endpoint.
type FetchError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: Error: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client talks to the Remote Data Gateway.
type Client struct {
	baseURL      string
	categoryPath string
	http         *http.Client
	log          *zap.Logger
}

// NewClient creates a gateway client. timeout bounds every call, including
// reading the body.
func NewClient(baseURL, categoryPath string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		categoryPath: categoryPath,
		http:         &http.Client{Timeout: timeout},
		log:          log.Named("gateway"),
	}
}

// FetchCategories returns the ordered category list.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getJSON(ctx, "fetch categories", c.categoryPath, "", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Category{}
	}
	return out, nil
}

// FetchItem returns one item with its customization groups.
func (c *Client) FetchItem(ctx context.Context, id string) (*Item, error) {
	var item Item
	path := "/api/product/items/" + url.PathEscape(id)
	if err := c.getJSON(ctx, "fetch item", path, "", &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// FetchProfile returns the customer the token belongs to.
func (c *Client) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	if token == "" {
		return nil, ErrMissingCredential
	}
	var p Profile
	if err := c.getJSON(ctx, "fetch profile", "/api/customer/", token, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlaceOrder posts the order. Any HTTP answer is returned as-is for the caller
// to interpret; only transport failures produce an error.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*PlaceOrderResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/place-order/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	out := &PlaceOrderResponse{StatusCode: resp.StatusCode, Body: raw}
	var envelope struct {
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		out.Order = envelope.Order
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, op, path, token string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("gateway request failed", zap.String("op", op), zap.Error(err))
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("gateway returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		return &FetchError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
