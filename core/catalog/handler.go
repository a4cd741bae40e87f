package catalog

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/backend"
	"github.com/irsalhamdi/smartshop/i18n"
)

func HandleListProducts(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var (
			products []Product
			err      error
		)

		if q := web.Query(r, "q"); q != "" {
			products, err = c.Search(ctx, q)
		} else {
			products, err = c.Products(ctx)
		}
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, withImages(products), http.StatusOK)
	}
}

func HandleShowProduct(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r, "id")
		if err != nil {
			return err
		}

		p, err := c.Product(ctx, id)
		if err != nil {
			return fail(r, err)
		}

		p.ImageURL = ImageURL(p)
		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleListByCategory(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r, "category_id")
		if err != nil {
			return err
		}

		products, err := c.ProductsByCategory(ctx, id)
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, withImages(products), http.StatusOK)
	}
}

func HandleListByBrand(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r, "brand_id")
		if err != nil {
			return err
		}

		products, err := c.ProductsByBrand(ctx, id)
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, withImages(products), http.StatusOK)
	}
}

func HandleListCategories(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cats, err := c.Categories(ctx)
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, cats, http.StatusOK)
	}
}

func HandleShowCategory(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r, "id")
		if err != nil {
			return err
		}

		cat, err := c.Category(ctx, id)
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, cat, http.StatusOK)
	}
}

func HandleListBrands(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		brands, err := c.Brands(ctx)
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, brands, http.StatusOK)
	}
}

func HandleShowBrand(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r, "id")
		if err != nil {
			return err
		}

		b, err := c.Brand(ctx, id)
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, b, http.StatusOK)
	}
}

func withImages(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		p.ImageURL = ImageURL(p)
		out[i] = p
	}
	return out
}

func fail(r *http.Request, err error) error {
	if backend.IsStatus(err, http.StatusNotFound) {
		return weberr.Translated(r, err, i18n.ProductNotFound, http.StatusNotFound)
	}
	return weberr.Backend(r, err, http.StatusBadGateway)
}

func pathID(r *http.Request, key string) (int64, error) {
	id, err := web.ParamID(r, key)
	if err != nil {
		return 0, weberr.BadRequest(err)
	}
	return id, nil
}
