// Package backend is the client of the remote SmartShop REST API serving the
// catalog, the orders and the accounts.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Error is a non 2xx answer of the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend answered %d", e.Status)
	}
	return fmt.Sprintf("backend answered %d: %s", e.Status, e.Message)
}

func (e *Error) BackendMessage() string { return e.Message }

// IsStatus reports whether err is a backend answer with the given status.
func IsStatus(err error, status int) bool {
	var be *Error
	return errors.As(err, &be) && be.Status == status
}

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("backend unavailable")

type Config struct {
	URL              string
	Timeout          time.Duration
	BreakerFailures  uint32
	BreakerOpenDelay time.Duration
	HTTPClient       *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*http.Response]
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	st := gobreaker.Settings{
		Name:    "backend",
		Timeout: cfg.BreakerOpenDelay,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			var be *Error
			if errors.As(err, &be) {
				return be.Status < http.StatusInternalServerError
			}
			// A customer leaving the page says nothing about the backend.
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    hc,
		cb:      gobreaker.NewCircuitBreaker[*http.Response](st),
	}
}

// Do sends body as JSON to path and decodes the answer into out. A non empty
// token is sent as a bearer credential. Empty answers leave out untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, token string) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	data, status, err := c.send(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s answer: %w", method, path, err)
	}
	return nil
}

// Forward posts payload to path as is, with the given headers. It relays
// requests the storefront does not own, signed Stripe events for one.
func (c *Client) Forward(ctx context.Context, path string, payload []byte, header http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if _, _, err := c.send(req); err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return nil
}

func (c *Client) send(req *http.Request) ([]byte, int, error) {
	resp, err := c.cb.Execute(func() (*http.Response, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			defer resp.Body.Close()
			return nil, decodeError(resp)
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, 0, ErrUnavailable
	}
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading answer: %w", err)
	}
	return data, resp.StatusCode, nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
