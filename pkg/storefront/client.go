// Package storefront is the API client that plays the browser's part:
// it logs in, browses the catalog, accumulates a session cart and
// submits it as an order. The cart lives entirely on this side; the
// server only ever sees the snapshot posted at checkout.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avorobev/storefront/internal/cart"
	"github.com/avorobev/storefront/internal/models"
	"github.com/avorobev/storefront/internal/token"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyCart        = errors.New("cart is empty")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *cart.Session
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		session: cart.NewSession(),
	}
}

func (c *Client) Session() *cart.Session {
	return c.session
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (models.User, error) {
	var user models.User
	err := c.postJSON(ctx, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, http.StatusCreated, &user)
	return user, err
}

// Login authenticates and establishes the session. The identity is
// decoded from the returned token exactly once, here; a login as a
// different user clears the previous user's cart.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp loginResponse
	if err := c.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, http.StatusOK, &resp); err != nil {
		return err
	}

	ident, err := decodeIdentity(resp.Token)
	if err != nil {
		return fmt.Errorf("decode token: %w", err)
	}
	c.session.Establish(resp.Token, ident)
	return nil
}

func (c *Client) Logout() {
	c.session.Reset()
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.getJSON(ctx, "/prod", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id uint) (models.Product, error) {
	var out models.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/prod/%d", id), &out); err != nil {
		return models.Product{}, err
	}
	return out, nil
}

func (c *Client) AddToCart(p models.Product)      { c.session.Cart().Add(p) }
func (c *Client) IncreaseQuantity(productID uint) { c.session.Cart().Increase(productID) }
func (c *Client) DecreaseQuantity(productID uint) { c.session.Cart().Decrease(productID) }
func (c *Client) RemoveFromCart(productID uint)   { c.session.Cart().Remove(productID) }
func (c *Client) CartItems() []cart.LineItem      { return c.session.Cart().Items() }
func (c *Client) CartTotal() float64              { return c.session.Cart().Total() }

type PlacedOrder struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"user_id"`
	TotalAmount float64         `json:"total_amount"`
	CreatedAt   int64           `json:"created_at"`
	Products    json.RawMessage `json:"products"`
}

// Checkout submits the cart with the locally computed total. The cart
// is cleared only on success; a failed submission leaves it intact so
// the user may retry.
func (c *Client) Checkout(ctx context.Context) (PlacedOrder, error) {
	if c.session.Token() == "" {
		return PlacedOrder{}, ErrNotAuthenticated
	}
	cc := c.session.Cart()
	if cc.Len() == 0 {
		return PlacedOrder{}, ErrEmptyCart
	}

	payload := map[string]any{
		"products":     cc.Snapshots(),
		"total_amount": cc.Total(),
	}

	var placed PlacedOrder
	if err := c.postJSON(ctx, "/order", payload, http.StatusCreated, &placed); err != nil {
		return PlacedOrder{}, err
	}

	cc.Clear()
	return placed, nil
}

func decodeIdentity(raw string) (token.Identity, error) {
	var claims token.Claims
	// The client holds no signing secret; the server verified the
	// token it just issued.
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return token.Identity{}, err
	}
	return claims.Identity()
}

func (c *Client) postJSON(ctx context.Context, path string, body any, wantStatus int, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s failed with status: %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed with status: %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if t := c.session.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
}
