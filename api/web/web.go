package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

type Middleware func(Handler) Handler

// WrapMiddleware runs mw in order around handler; nil entries are skipped.
func WrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if m := mw[i]; m != nil {
			handler = m(handler)
		}
	}
	return handler
}

// Respond writes data as JSON. Answers are per session (cart, checkout,
// orders) so nothing is cacheable.
func Respond(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	w.Header().Set("Cache-Control", "no-store")

	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cannot marshal response data: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("cannot write response data to response writer: %w", err)
	}
	return nil
}

const maxBody = 1 << 20

// Decode reads a JSON body into val, rejecting unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, val any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(val)
}

func Param(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}

// ParamID reads a numeric path parameter: product, item, category and order
// ids are all backend int64 keys.
func ParamID(r *http.Request, key string) (int64, error) {
	raw := Param(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s[%s] is not a number: %w", key, raw, err)
	}
	return id, nil
}

func Query(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}
