package order

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/irsalhamdi/smartshop/backend"
)

// Client talks to the order and payment endpoints of the remote API. Every
// call but the webhook relay carries the customer's bearer token.
type Client struct {
	api *backend.Client
}

func NewClient(api *backend.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Create(ctx context.Context, token string, req OrderRequest) (Order, error) {
	var ord Order
	if err := c.api.Do(ctx, http.MethodPost, "/orders", req, &ord, token); err != nil {
		return Order{}, fmt.Errorf("creating order: %w", err)
	}
	return ord, nil
}

func (c *Client) List(ctx context.Context, token string) ([]Order, error) {
	ords := []Order{}
	if err := c.api.Do(ctx, http.MethodGet, "/orders", nil, &ords, token); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return ords, nil
}

func (c *Client) Fetch(ctx context.Context, token string, id int64) (Order, error) {
	var ord Order
	if err := c.api.Do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &ord, token); err != nil {
		return Order{}, fmt.Errorf("fetching order[%d]: %w", id, err)
	}
	return ord, nil
}

func (c *Client) FetchByCode(ctx context.Context, token string, code string) (Order, error) {
	var ord Order
	path := "/orders/code/" + url.PathEscape(code)
	if err := c.api.Do(ctx, http.MethodGet, path, nil, &ord, token); err != nil {
		return Order{}, fmt.Errorf("fetching order[%s]: %w", code, err)
	}
	return ord, nil
}

// PaymentSucceeded tells the backend the payment intent went through.
func (c *Client) PaymentSucceeded(ctx context.Context, token string, paymentIntentID string) error {
	path := "/payments/success?paymentIntentId=" + url.QueryEscape(paymentIntentID)
	if err := c.api.Do(ctx, http.MethodPost, path, nil, nil, token); err != nil {
		return fmt.Errorf("notifying payment[%s] success: %w", paymentIntentID, err)
	}
	return nil
}

// PaymentFailed tells the backend the payment intent failed.
func (c *Client) PaymentFailed(ctx context.Context, token string, paymentIntentID string) error {
	path := "/payments/failure?paymentIntentId=" + url.QueryEscape(paymentIntentID)
	if err := c.api.Do(ctx, http.MethodPost, path, nil, nil, token); err != nil {
		return fmt.Errorf("notifying payment[%s] failure: %w", paymentIntentID, err)
	}
	return nil
}

// ForwardWebhook relays a Stripe event, signature included, to the webhook
// endpoint of the remote API. It is the one payment endpoint open without a
// customer token.
func (c *Client) ForwardWebhook(ctx context.Context, payload []byte, signature string) error {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Stripe-Signature", signature)

	if err := c.api.Forward(ctx, "/payments/webhook", payload, h); err != nil {
		return fmt.Errorf("forwarding stripe event: %w", err)
	}
	return nil
}
