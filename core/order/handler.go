package order

import (
	"context"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/backend"
	"github.com/irsalhamdi/smartshop/core/claims"
)

func HandleList(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		ords, err := c.List(ctx, clm.Token)
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, ords, http.StatusOK)
	}
}

func HandleShow(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		id, err := web.ParamID(r, "id")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("order: %w", err))
		}

		ord, err := c.Fetch(ctx, clm.Token, id)
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func HandleShowByCode(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		ord, err := c.FetchByCode(ctx, clm.Token, web.Param(r, "code"))
		if err != nil {
			return fail(r, err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func fail(r *http.Request, err error) error {
	switch {
	case backend.IsStatus(err, http.StatusNotFound):
		return weberr.NotFound(err)
	case backend.IsStatus(err, http.StatusUnauthorized), backend.IsStatus(err, http.StatusForbidden):
		return weberr.NotAuthorized(err)
	}
	return weberr.Backend(r, err, http.StatusBadGateway)
}
