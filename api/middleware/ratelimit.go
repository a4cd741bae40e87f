package middleware

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/i18n"
	"github.com/irsalhamdi/smartshop/rate"
)

// RateLimit rejects clients going over the limiter's budget. Clients are
// told apart by their address.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if ok, wait := lim.Allow(clientAddr(r)); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				err := errors.New("rate limit exceeded")
				return weberr.Translated(r, err, i18n.TooManyRequests, http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
