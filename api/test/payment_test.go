package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/core/catalog"
	"github.com/irsalhamdi/smartshop/core/order"
	"github.com/shopspring/decimal"
	mock "github.com/stripe/stripe-mock/param"
)

type mockBackend struct {
	// Payment hooks find the order through the intent metadata.
	stripe *mockStripe

	mu       sync.Mutex
	products map[string]catalog.Product
	users    map[string]string
	orders   []order.OrderRequest
	notified []string
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		products: map[string]catalog.Product{
			"1": {ID: 1, Name: "Google Pixel 8", Price: decimal.NewFromInt(3199), Stock: 5},
			"2": {ID: 2, Name: "MagSafe Charger", Price: decimal.RequireFromString("249.99"), Stock: 20},
		},
		users: map[string]string{"ana@example.com": "secret123"},
	}
}

func (m *mockBackend) setPrice(id string, price decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.products[id]
	p.Price = price
	m.products[id] = p
}

func (m *mockBackend) placed() []order.OrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]order.OrderRequest(nil), m.orders...)
}

func (m *mockBackend) notifications() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.notified...)
}

func fail(w http.ResponseWriter, status int, msg string) {
	web.Respond(context.Background(), w, map[string]string{"message": msg}, status)
}

func (m *mockBackend) handle() http.Handler {
	authenticate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&in)

		m.mu.Lock()
		pass, ok := m.users[in.Email]
		m.mu.Unlock()

		if !ok || pass != in.Password {
			fail(w, http.StatusUnauthorized, "Bad credentials")
			return
		}
		web.Respond(context.Background(), w, map[string]string{"token": "jwt-" + in.Email}, 200)
	})

	register := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&in)

		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.users[in.Email]; ok {
			fail(w, http.StatusConflict, "Email already exists")
			return
		}
		m.users[in.Email] = in.Password
		web.Respond(context.Background(), w, map[string]string{"token": "jwt-" + in.Email}, 200)
	})

	products := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		web.Respond(context.Background(), w, []catalog.Product{m.products["1"], m.products["2"]}, 200)
	})

	product := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		p, ok := m.products[mux.Vars(r)["id"]]
		m.mu.Unlock()

		if !ok {
			fail(w, http.StatusNotFound, "Product not found")
			return
		}
		web.Respond(context.Background(), w, p, 200)
	})

	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			h(w, r)
		}
	}

	createOrder := authed(func(w http.ResponseWriter, r *http.Request) {
		var req order.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, err.Error())
			return
		}

		m.mu.Lock()
		m.orders = append(m.orders, req)
		n := len(m.orders)
		m.mu.Unlock()

		ord := order.Order{
			ID:           int64(n),
			OrderCode:    fmt.Sprintf("ORD-%d", n),
			Total:        req.Total,
			Status:       order.Pending,
			DeliveryName: req.DeliveryName,
		}
		web.Respond(context.Background(), w, ord, 201)
	})

	listOrders := authed(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()

		ords := make([]order.Order, 0, len(m.orders))
		for i, req := range m.orders {
			ords = append(ords, order.Order{ID: int64(i + 1), OrderCode: fmt.Sprintf("ORD-%d", i+1), Total: req.Total})
		}
		web.Respond(context.Background(), w, ords, 200)
	})

	notify := authed(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("paymentIntentId")
		orderID := m.stripe.orderOf(id)

		m.mu.Lock()
		defer m.mu.Unlock()
		m.notified = append(m.notified, mux.Vars(r)["outcome"]+":"+id+":"+orderID)
		w.WriteHeader(http.StatusOK)
	})

	hook := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Stripe-Signature") == "" {
			fail(w, http.StatusBadRequest, "Missing signature")
			return
		}
		var evt struct{ Type string }
		json.NewDecoder(r.Body).Decode(&evt)

		m.mu.Lock()
		defer m.mu.Unlock()
		m.notified = append(m.notified, "webhook:"+evt.Type)
		w.Write([]byte("Received"))
	})

	r := mux.NewRouter()
	r.Handle("/auth/authenticate", authenticate).Methods("POST")
	r.Handle("/auth/register", register).Methods("POST")
	r.Handle("/products", products).Methods("GET")
	r.Handle("/products/{id}", product).Methods("GET")
	r.Handle("/orders", createOrder).Methods("POST")
	r.Handle("/orders", listOrders).Methods("GET")
	r.Handle("/payments/webhook", hook).Methods("POST")
	r.Handle("/payments/{outcome:success|failure}", notify).Methods("POST")
	return r
}

type mockStripe struct {
	mu      sync.Mutex
	intents map[string]map[string]any
}

func newMockStripe() *mockStripe {
	return &mockStripe{intents: map[string]map[string]any{}}
}

// confirm plays the customer paying the intent in the browser.
func (m *mockStripe) confirm(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents[id]["status"] = "succeeded"
}

func (m *mockStripe) amount(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, _ := m.intents[id]["amount"].(int64)
	return a
}

func (m *mockStripe) orderOf(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	md, _ := m.intents[id]["metadata"].(map[string]any)
	orderID, _ := md["orderId"].(string)
	return orderID
}

func (m *mockStripe) handle() http.Handler {
	create := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params, _ := mock.ParseParams(r)

		amount, err := strconv.ParseInt(fmt.Sprint(params["amount"]), 10, 64)
		if err != nil || amount <= 0 {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		m.mu.Lock()
		defer m.mu.Unlock()

		id := fmt.Sprintf("pi_%d", len(m.intents)+1)
		pi := map[string]any{
			"id":            id,
			"object":        "payment_intent",
			"client_secret": id + "_secret",
			"status":        "requires_payment_method",
			"amount":        amount,
			"currency":      params["currency"],
		}
		m.intents[id] = pi
		web.Respond(context.Background(), w, pi, 200)
	})

	get := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()

		pi, ok := m.intents[mux.Vars(r)["id"]]
		if !ok {
			web.Respond(context.Background(), w, map[string]any{
				"error": map[string]string{"type": "invalid_request_error", "message": "No such payment_intent"},
			}, 404)
			return
		}
		web.Respond(context.Background(), w, pi, 200)
	})

	update := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params, _ := mock.ParseParams(r)

		m.mu.Lock()
		defer m.mu.Unlock()

		pi, ok := m.intents[mux.Vars(r)["id"]]
		if !ok {
			web.Respond(context.Background(), w, map[string]any{
				"error": map[string]string{"type": "invalid_request_error", "message": "No such payment_intent"},
			}, 404)
			return
		}
		if md, ok := params["metadata"].(map[string]any); ok {
			pi["metadata"] = md
		}
		web.Respond(context.Background(), w, pi, 200)
	})

	r := mux.NewRouter()
	r.Handle("/v1/payment_intents", create).Methods("POST")
	r.Handle("/v1/payment_intents/{id}", get).Methods("GET")
	r.Handle("/v1/payment_intents/{id}", update).Methods("POST")
	return r
}
