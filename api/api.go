package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/smartshop/api/background"
	"github.com/irsalhamdi/smartshop/api/middleware"
	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/core/auth"
	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/irsalhamdi/smartshop/core/catalog"
	"github.com/irsalhamdi/smartshop/core/checkout"
	"github.com/irsalhamdi/smartshop/core/order"
	"github.com/irsalhamdi/smartshop/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin    string
	Log           logrus.FieldLogger
	Session       *scs.SessionManager
	Carts         *cart.Provider
	Catalog       *catalog.Client
	Accounts      auth.Service
	Orders        *order.Client
	Payments      checkout.Payments
	Background    *background.Background
	Limiter       *rate.Limiter
	Currency      string
	WebhookSecret string
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	a.mw = append(a.mw, auth.LoadClaims(cfg.Session))

	authen := auth.Authenticate()
	limit := middleware.RateLimit(cfg.Limiter)
	withCart := cart.Load(cfg.Session, cfg.Carts)

	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Accounts, cfg.Session), limit)
	a.Handle(http.MethodPost, "/auth/register", auth.HandleSignup(cfg.Accounts, cfg.Session), limit)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/current", auth.HandleShowCurrent())

	a.Handle(http.MethodGet, "/products", catalog.HandleListProducts(cfg.Catalog))
	a.Handle(http.MethodGet, "/products/category/{category_id}", catalog.HandleListByCategory(cfg.Catalog))
	a.Handle(http.MethodGet, "/products/brand/{brand_id}", catalog.HandleListByBrand(cfg.Catalog))
	a.Handle(http.MethodGet, "/products/{id}", catalog.HandleShowProduct(cfg.Catalog))
	a.Handle(http.MethodGet, "/categories", catalog.HandleListCategories(cfg.Catalog))
	a.Handle(http.MethodGet, "/categories/{id}", catalog.HandleShowCategory(cfg.Catalog))
	a.Handle(http.MethodGet, "/brands", catalog.HandleListBrands(cfg.Catalog))
	a.Handle(http.MethodGet, "/brands/{id}", catalog.HandleShowBrand(cfg.Catalog))

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(), withCart)
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(), withCart)
	a.Handle(http.MethodPost, "/cart/items", cart.HandleCreateItem(cfg.Catalog), withCart)
	a.Handle(http.MethodPut, "/cart/items/{id}", cart.HandleUpdateItem(), withCart)
	a.Handle(http.MethodDelete, "/cart/items/{id}", cart.HandleDeleteItem(), withCart)
	a.Handle(http.MethodPost, "/cart/promo", cart.HandleApplyPromo(), withCart)

	a.Handle(http.MethodGet, "/checkout", checkout.HandleShow(cfg.Session, cfg.Currency), withCart)
	a.Handle(http.MethodPost, "/checkout/delivery", checkout.HandleDelivery(cfg.Session, cfg.Catalog, cfg.Payments, cfg.Currency), withCart)
	a.Handle(http.MethodPost, "/checkout/payment", checkout.HandlePayment(cfg.Session, cfg.Payments, cfg.Orders, cfg.Background), withCart)
	a.Handle(http.MethodPost, "/checkout/webhook", checkout.HandleWebhook(cfg.WebhookSecret, cfg.Orders, cfg.Log))

	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.Orders), authen)
	a.Handle(http.MethodGet, "/orders/code/{code}", order.HandleShowByCode(cfg.Orders), authen)
	a.Handle(http.MethodGet, "/orders/{id}", order.HandleShow(cfg.Orders), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
