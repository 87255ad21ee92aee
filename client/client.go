package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// Client is a thin HTTP client for the restaurant backend's REST API.
// Every payload arrives wrapped in the {status, message, data}
// envelope; Client unwraps it and decodes data into typed models.
type Client struct {
	baseURL    string
	clientID   string
	tokenFn    func() string
	httpClient *http.Client
}

// New creates a Client for the given backend. tokenFn supplies the
// current access token on every request so a refreshed session is
// picked up without rebuilding the client; it may return "" when the
// user is not logged in yet. clientID is sent as X-Client-Id.
func New(baseURL, clientID string, tokenFn func() string) *Client {
	if tokenFn == nil {
		tokenFn = func() string { return "" }
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		tokenFn:  tokenFn,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope mirrors utils.JSONResponse on the decode side.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokenFn(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-Id", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d on %s %s: %s",
			resp.StatusCode, method, path, strings.TrimSpace(string(raw)))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding envelope for %s %s: %w", method, path, err)
	}
	if !env.Status {
		return fmt.Errorf("backend rejected %s %s: %s", method, path, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding data for %s %s: %w", method, path, err)
		}
	}
	return nil
}

func contextQuery(pc models.PollContext) url.Values {
	q := url.Values{}
	q.Set("restaurant_id", strconv.FormatUint(uint64(pc.RestaurantID), 10))
	if pc.BranchID != nil {
		q.Set("branch_id", strconv.FormatUint(uint64(*pc.BranchID), 10))
	}
	return q
}

// ListNotifications fetches the current notification collection for
// the given context.
func (c *Client) ListNotifications(ctx context.Context, pc models.PollContext) ([]models.NotificationRecord, error) {
	var records []models.NotificationRecord
	if err := c.do(ctx, http.MethodGet, "/notifications/list", contextQuery(pc), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MarkRead marks one notification read, or every notification when id
// is nil (the documented empty-body convention).
func (c *Client) MarkRead(ctx context.Context, id *string) error {
	body := map[string]any{}
	if id != nil {
		body["id"] = *id
	}
	return c.do(ctx, http.MethodPost, "/notifications/mark-read", nil, body, nil)
}

// ListOrders fetches orders for the context, optionally filtered by
// status.
func (c *Client) ListOrders(ctx context.Context, pc models.PollContext, status string) ([]models.Order, error) {
	q := contextQuery(pc)
	if status != "" {
		q.Set("status", status)
	}
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/list", q, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to a new status. notes may be "".
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status, notes string) error {
	body := map[string]any{
		"id":     id,
		"status": status,
	}
	if notes != "" {
		body["notes"] = notes
	}
	return c.do(ctx, http.MethodPut, "/orders/update-status", nil, body, nil)
}

// CurrentSubscription fetches the restaurant's subscription record.
func (c *Client) CurrentSubscription(ctx context.Context, restaurantID uint) (models.SubscriptionSnapshot, error) {
	q := url.Values{}
	q.Set("restaurant_id", strconv.FormatUint(uint64(restaurantID), 10))
	var snap models.SubscriptionSnapshot
	if err := c.do(ctx, http.MethodGet, "/subscriptions/current", q, nil, &snap); err != nil {
		return models.SubscriptionSnapshot{}, err
	}
	return snap, nil
}
