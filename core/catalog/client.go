package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/irsalhamdi/smartshop/backend"
	"github.com/irsalhamdi/smartshop/core/cart"
	"golang.org/x/sync/singleflight"
)

// Client reads the catalog of the remote API. Identical reads running at
// the same time share one call.
type Client struct {
	api *backend.Client
	sfg singleflight.Group
}

func NewClient(api *backend.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	return fetch[[]Product](ctx, c, "/products")
}

func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	return fetch[Product](ctx, c, fmt.Sprintf("/products/%d", id))
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	return fetch[[]Product](ctx, c, fmt.Sprintf("/products/category/%d", categoryID))
}

func (c *Client) ProductsByBrand(ctx context.Context, brandID int64) ([]Product, error) {
	return fetch[[]Product](ctx, c, fmt.Sprintf("/products/brand/%d", brandID))
}

func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	return fetch[[]Product](ctx, c, "/products/search?q="+url.QueryEscape(query))
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	return fetch[[]Category](ctx, c, "/categories")
}

func (c *Client) Category(ctx context.Context, id int64) (Category, error) {
	return fetch[Category](ctx, c, fmt.Sprintf("/categories/%d", id))
}

func (c *Client) Brands(ctx context.Context) ([]Brand, error) {
	return fetch[[]Brand](ctx, c, "/brands")
}

func (c *Client) Brand(ctx context.Context, id int64) (Brand, error) {
	return fetch[Brand](ctx, c, fmt.Sprintf("/brands/%d", id))
}

// CartProduct implements cart.Catalog.
func (c *Client) CartProduct(ctx context.Context, id int64) (cart.Product, error) {
	p, err := c.Product(ctx, id)
	if backend.IsStatus(err, http.StatusNotFound) {
		return cart.Product{}, fmt.Errorf("product[%d]: %w", id, cart.ErrUnknownProduct)
	}
	if err != nil {
		return cart.Product{}, err
	}
	return p.CartProduct(), nil
}

// fetch shares one call between concurrent readers of path. The shared call
// does not stop when the caller that started it goes away; the backend
// client timeout bounds it. Each caller still returns on its own ctx.
func fetch[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T

	ch := c.sfg.DoChan(path, func() (interface{}, error) {
		var out T
		if err := c.api.Do(context.WithoutCancel(ctx), http.MethodGet, path, nil, &out, ""); err != nil {
			return out, err
		}
		return out, nil
	})

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("fetching %s: %w", path, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, fmt.Errorf("fetching %s: %w", path, res.Err)
		}
		return res.Val.(T), nil
	}
}
