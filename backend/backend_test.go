package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type echo struct {
	Method string `json:"method"`
	Auth   string `json:"auth"`
	Name   string `json:"name"`
}

func TestDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/echo":
			var in struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&in)
			json.NewEncoder(w).Encode(echo{Method: r.Method, Auth: r.Header.Get("Authorization"), Name: in.Name})
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		case "/conflict":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"Email already exists"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL + "/", Timeout: time.Second})
	ctx := context.Background()

	var got echo
	if err := c.Do(ctx, http.MethodPost, "/echo", map[string]string{"name": "pixel"}, &got, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := echo{Method: http.MethodPost, Auth: "Bearer tok", Name: "pixel"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wrong echo (-want +got):\n%s", diff)
	}

	got = echo{}
	if err := c.Do(ctx, http.MethodGet, "/echo", nil, &got, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Auth != "" {
		t.Fatalf("expected no authorization header, got %q", got.Auth)
	}

	out := echo{Name: "untouched"}
	if err := c.Do(ctx, http.MethodPost, "/empty", nil, &out, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "untouched" {
		t.Fatalf("empty answer modified the output: %+v", out)
	}

	err := c.Do(ctx, http.MethodPost, "/conflict", nil, nil, "")
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if be.Status != http.StatusConflict || be.BackendMessage() != "Email already exists" {
		t.Fatalf("unexpected backend error: %+v", be)
	}
	if !IsStatus(err, http.StatusConflict) || IsStatus(err, http.StatusNotFound) {
		t.Fatal("IsStatus does not match the answer status")
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL, Timeout: time.Second, BreakerFailures: 2, BreakerOpenDelay: time.Minute})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := c.Do(ctx, http.MethodGet, "/missing", nil, nil, ""); !IsStatus(err, http.StatusNotFound) {
			t.Fatalf("expected 404, got %v", err)
		}
	}

	for i := 0; i < 2; i++ {
		if err := c.Do(ctx, http.MethodGet, "/down", nil, nil, ""); !IsStatus(err, http.StatusBadGateway) {
			t.Fatalf("expected 502, got %v", err)
		}
	}

	err := c.Do(ctx, http.MethodGet, "/down", nil, nil, "")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls != 7 {
		t.Fatalf("expected the open breaker to short circuit, server saw %d calls", calls)
	}
}

func TestBreakerIgnoresCanceledRequests(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{URL: srv.URL, Timeout: time.Second, BreakerFailures: 2, BreakerOpenDelay: time.Minute})

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(2 * time.Millisecond)
			cancel()
		}()
		if err := c.Do(ctx, http.MethodGet, "/slow", nil, nil, ""); !errors.Is(err, context.Canceled) {
			cancel()
			t.Fatalf("expected a canceled request, got %v", err)
		}
		cancel()
	}

	if err := c.Do(context.Background(), http.MethodGet, "/fast", nil, nil, ""); err != nil {
		t.Fatalf("expected the breaker to stay closed after canceled requests, got %v", err)
	}
}

func TestForward(t *testing.T) {
	var got struct {
		body, sig, auth string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.body, got.sig, got.auth = string(b), r.Header.Get("Stripe-Signature"), r.Header.Get("Authorization")
		if r.URL.Path != "/payments/webhook" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("Received"))
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL, Timeout: time.Second})
	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	h := http.Header{"Stripe-Signature": {"t=1,v1=abc"}}

	if err := c.Forward(context.Background(), "/payments/webhook", payload, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.body != string(payload) || got.sig != "t=1,v1=abc" || got.auth != "" {
		t.Fatalf("payload not relayed as is: %+v", got)
	}

	if err := c.Forward(context.Background(), "/elsewhere", payload, h); !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404, got %v", err)
	}
}
