package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/irsalhamdi/smartshop/api/web"
)

// Panics turns a panic in the handler chain into an error so that Errors
// can log it and answer 500.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
