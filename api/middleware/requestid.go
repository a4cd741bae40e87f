package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/irsalhamdi/smartshop/api/web"
)

const RequestIDHeader = "X-Request-Id"

// maxRequestID bounds ids forwarded by a proxy.
const maxRequestID = 128

type reqIDKeyCtx int

const reqIDKey reqIDKeyCtx = 1

// RequestID tags the request with the id sent by the proxy in front of the
// storefront, or a new one, and echoes it back to the browser.
func RequestID() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := cleanRequestID(r.Header.Get(RequestIDHeader))
			if id == "" {
				id = uuid.NewString()
			}

			ctx = context.WithValue(ctx, reqIDKey, id)
			w.Header().Set(RequestIDHeader, id)

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// cleanRequestID drops anything that would break a log line or a header.
func cleanRequestID(id string) string {
	id = strings.Map(func(r rune) rune {
		if r < 0x21 || r > 0x7e {
			return -1
		}
		return r
	}, id)

	if len(id) > maxRequestID {
		id = id[:maxRequestID]
	}
	return id
}

func ContextRequestID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}
