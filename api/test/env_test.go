package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/smartshop/api"
	"github.com/irsalhamdi/smartshop/api/background"
	"github.com/irsalhamdi/smartshop/backend"
	"github.com/irsalhamdi/smartshop/core/auth"
	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/irsalhamdi/smartshop/core/catalog"
	"github.com/irsalhamdi/smartshop/core/checkout"
	"github.com/irsalhamdi/smartshop/core/order"
	"github.com/irsalhamdi/smartshop/rate"
	"github.com/irsalhamdi/smartshop/storage"
	"github.com/sirupsen/logrus"
)

type TestEnv struct {
	*httptest.Server
	Backend       *mockBackend
	Stripe        *mockStripe
	Background    *background.Background
	Carts         *cart.Provider
	WebhookSecret string
	UserEmail     string
	UserPass      string
}

func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	be := newMockBackend()
	beSrv := httptest.NewServer(be.handle())
	t.Cleanup(beSrv.Close)

	st := newMockStripe()
	stSrv := httptest.NewServer(st.handle())
	t.Cleanup(stSrv.Close)
	be.stripe = st

	session := scs.New()
	carts := cart.NewProvider(storage.NewSession(session), log, time.Minute)
	t.Cleanup(carts.Close)

	lim := rate.New(rate.Config{Burst: 100, Interval: 10 * time.Millisecond, Expiry: time.Minute})
	t.Cleanup(lim.Stop)

	client := backend.New(backend.Config{URL: beSrv.URL, Timeout: 5 * time.Second})
	bg := background.New(log)

	env := &TestEnv{
		Backend:       be,
		Stripe:        st,
		Background:    bg,
		Carts:         carts,
		WebhookSecret: "whsec_" + name,
		UserEmail:     "ana@example.com",
		UserPass:      "secret123",
	}

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:    "http://localhost:3000",
		Log:           log,
		Session:       session,
		Carts:         carts,
		Catalog:       catalog.NewClient(client),
		Accounts:      auth.NewClient(client),
		Orders:        order.NewClient(client),
		Payments:      checkout.NewStripe("sk_test_"+name, stSrv.URL, log),
		Background:    bg,
		Limiter:       lim,
		Currency:      "ron",
		WebhookSecret: env.WebhookSecret,
	})

	env.Server = httptest.NewServer(mux)
	t.Cleanup(env.Server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	env.Server.Client().Jar = jar

	return env, nil
}

// Drain waits for the background work started by the requests so far.
func (env *TestEnv) Drain(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := env.Background.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
}

// Request sends body as JSON and decodes the answer into out when given.
func Request(server *httptest.Server, method, path string, body any, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, server.URL+path, rd)
	if err != nil {
		return 0, err
	}
	r.Header.Set("Accept-Language", "en")

	w, err := server.Client().Do(r)
	if err != nil {
		return 0, err
	}
	defer w.Body.Close()

	if out != nil && w.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			return w.StatusCode, fmt.Errorf("decoding %s %s answer: %w", method, path, err)
		}
	}
	return w.StatusCode, nil
}

func Login(server *httptest.Server, email, pass string) error {
	code, err := Request(server, http.MethodPost, "/auth/login", auth.Login{Email: email, Password: pass}, nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("login failed: status code %d", code)
	}
	return nil
}

func Logout(server *httptest.Server) error {
	code, err := Request(server, http.MethodPost, "/auth/logout", nil, nil)
	if err != nil {
		return err
	}
	if code != http.StatusNoContent {
		return fmt.Errorf("logout failed: status code %d", code)
	}
	return nil
}
