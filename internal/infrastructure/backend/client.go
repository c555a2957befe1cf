package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pedidos-agent/internal/domain"
)

// CredentialSource supplies the current session, when one exists. Requests
// made before login simply omit the auth headers; some endpoints are public.
type CredentialSource interface {
	Load() (domain.Session, bool)
}

// Client is the typed gateway to the restaurant backend. Every request
// carries the API key and tenant id; the Authorization and X-User-Id headers
// are added only while a session exists.
type Client struct {
	BaseURL  string
	APIKey   string
	TenantID string
	Creds    CredentialSource
	HTTP     *http.Client
}

type loginResp struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
	Message string      `json:"message"`
}

// Login authenticates against /api/auth/mobile-login. A 404 there means the
// endpoint is not deployed yet, so the call retries exactly once against the
// legacy /api/auth/login path with the same payload. Any other failure is
// surfaced as-is.
func (c *Client) Login(ctx context.Context, username, password string) (domain.User, error) {
	payload := map[string]string{"username": username, "password": password}
	status, body, err := c.request(ctx, http.MethodPost, "/api/auth/mobile-login", payload)
	if err != nil {
		return domain.User{}, err
	}
	if status == http.StatusNotFound {
		status, body, err = c.request(ctx, http.MethodPost, "/api/auth/login", payload)
		if err != nil {
			return domain.User{}, err
		}
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return domain.User{}, &AuthError{Reason: "invalid credentials"}
	}
	if status >= 300 {
		return domain.User{}, &RemoteError{StatusCode: status, Body: string(body)}
	}
	var out loginResp
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.User{}, &MalformedResponseError{Field: "json body"}
	}
	if !out.Success {
		reason := out.Message
		if reason == "" {
			reason = "invalid credentials"
		}
		return domain.User{}, &AuthError{Reason: reason}
	}
	if out.User.ID == "" {
		return domain.User{}, &MalformedResponseError{Field: "user.id"}
	}
	return out.User, nil
}

type ordersResp struct {
	Orders     []domain.Order     `json:"orders"`
	Pagination *domain.Pagination `json:"pagination"`
}

// FetchOrders loads one page of the order feed. A 2xx payload without a
// pagination block is rejected rather than defaulted: it would mean silently
// trusting truncated data.
func (c *Client) FetchOrders(ctx context.Context, page, limit int) (domain.OrdersResponse, error) {
	if page < 1 {
		return domain.OrdersResponse{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if limit <= 0 {
		return domain.OrdersResponse{}, fmt.Errorf("limit must be > 0, got %d", limit)
	}
	path := fmt.Sprintf("/api/orders?page=%d&limit=%d", page, limit)
	var out ordersResp
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return domain.OrdersResponse{}, err
	}
	if out.Pagination == nil {
		return domain.OrdersResponse{}, &MalformedResponseError{Field: "pagination"}
	}
	for i, o := range out.Orders {
		if o.ID == "" {
			return domain.OrdersResponse{}, &MalformedResponseError{Field: fmt.Sprintf("orders[%d].id", i)}
		}
		if o.Items == nil {
			return domain.OrdersResponse{}, &MalformedResponseError{Field: fmt.Sprintf("orders[%d].items", i)}
		}
	}
	return domain.OrdersResponse{Orders: out.Orders, Pagination: *out.Pagination}, nil
}

type singleOrderResp struct {
	Order *domain.Order `json:"order"`
}

// GetOrder looks the order up in the feed first (the feed carries status, the
// single-order endpoint does not), then falls back to the direct endpoint.
func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	feed, err := c.FetchOrders(ctx, 1, 100)
	if err == nil {
		for _, o := range feed.Orders {
			if o.ID == orderID {
				return o, nil
			}
		}
	}
	var out singleOrderResp
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return domain.Order{}, err
	}
	if out.Order == nil {
		return domain.Order{}, &MalformedResponseError{Field: "order"}
	}
	o := *out.Order
	if o.Status == "" {
		o.Status = domain.StatusPending
	}
	return o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	path := "/api/orders/" + url.PathEscape(orderID) + "/status"
	return c.do(ctx, http.MethodPatch, path, map[string]string{"status": status}, nil)
}

func (c *Client) UpdateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	path := "/api/orders/" + url.PathEscape(orderID)
	return c.do(ctx, http.MethodPatch, path, map[string]any{"items": items}, nil)
}

func (c *Client) SendCustomerMessage(ctx context.Context, phone, message string) error {
	body := map[string]string{"phone": phone, "message": message}
	return c.do(ctx, http.MethodPost, "/api/bot/send-message", body, nil)
}

type statsResp struct {
	Stats *domain.DashboardStats `json:"stats"`
}

func (c *Client) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var out statsResp
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &out); err != nil {
		return domain.DashboardStats{}, err
	}
	if out.Stats == nil {
		return domain.DashboardStats{}, &MalformedResponseError{Field: "stats"}
	}
	return *out.Stats, nil
}

type menuResp struct {
	Items []domain.MenuItem `json:"items"`
}

func (c *Client) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	var out menuResp
	if err := c.do(ctx, http.MethodGet, "/api/admin/menu", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

type menuItemResp struct {
	Item *domain.MenuItem `json:"item"`
}

func (c *Client) CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	var out menuItemResp
	if err := c.do(ctx, http.MethodPost, "/api/admin/menu", item, &out); err != nil {
		return domain.MenuItem{}, err
	}
	if out.Item == nil {
		return domain.MenuItem{}, &MalformedResponseError{Field: "item"}
	}
	return *out.Item, nil
}

// MenuItemUpdate carries a partial menu edit; nil fields are left untouched
// server-side.
type MenuItemUpdate struct {
	ID        string   `json:"id"`
	Name      *string  `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Available *bool    `json:"available,omitempty"`
}

func (c *Client) UpdateMenuItem(ctx context.Context, update MenuItemUpdate) (domain.MenuItem, error) {
	var out menuItemResp
	if err := c.do(ctx, http.MethodPut, "/api/admin/menu", update, &out); err != nil {
		return domain.MenuItem{}, err
	}
	if out.Item == nil {
		return domain.MenuItem{}, &MalformedResponseError{Field: "item"}
	}
	return *out.Item, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	path := "/api/admin/menu?id=" + url.QueryEscape(id)
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("backend declined menu item delete: %s", id)
	}
	return nil
}

func (c *Client) StoreStatus(ctx context.Context) (domain.StoreStatus, error) {
	var out domain.StoreStatus
	if err := c.do(ctx, http.MethodGet, "/api/admin/store-hours", nil, &out); err != nil {
		return domain.StoreStatus{}, err
	}
	return out, nil
}

func (c *Client) SetStoreStatus(ctx context.Context, isOpen bool) error {
	return c.do(ctx, http.MethodPost, "/api/admin/store-hours", map[string]bool{"isOpen": isOpen}, nil)
}

type conversationsResp struct {
	Conversations []domain.PriorityConversation `json:"conversations"`
}

func (c *Client) PriorityConversations(ctx context.Context) ([]domain.PriorityConversation, error) {
	var out conversationsResp
	if err := c.do(ctx, http.MethodGet, "/api/admin/priority-conversations", nil, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

func (c *Client) SendWhatsApp(ctx context.Context, phone, message string) error {
	body := map[string]string{"phone": phone, "message": message}
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/send-whatsapp", body, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("backend declined whatsapp message to %s", phone)
	}
	return nil
}

// do issues a request and decodes the response into out, mapping failures to
// the gateway error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	status, raw, err := c.request(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status >= 300 {
		return &RemoteError{StatusCode: status, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Field: "json body"}
	}
	return nil
}

// request performs the HTTP exchange. Only transport failures are returned as
// errors; status handling belongs to the caller.
func (c *Client) request(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-API-Key", c.APIKey)
	req.Header.Set("X-Tenant-Id", c.TenantID)
	req.Header.Set("Content-Type", "application/json")
	if c.Creds != nil {
		if sess, ok := c.Creds.Load(); ok {
			cred := base64.StdEncoding.EncodeToString([]byte(sess.Username + ":" + sess.Password))
			req.Header.Set("Authorization", "Basic "+cred)
			req.Header.Set("X-User-Id", sess.User.ID)
		}
	}
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &NetworkError{Err: err}
	}
	return resp.StatusCode, raw, nil
}
