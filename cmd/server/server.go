package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/smartshop/api"
	"github.com/irsalhamdi/smartshop/api/background"
	"github.com/irsalhamdi/smartshop/backend"
	"github.com/irsalhamdi/smartshop/config"
	"github.com/irsalhamdi/smartshop/core/auth"
	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/irsalhamdi/smartshop/core/catalog"
	"github.com/irsalhamdi/smartshop/core/checkout"
	"github.com/irsalhamdi/smartshop/core/order"
	"github.com/irsalhamdi/smartshop/database"
	"github.com/irsalhamdi/smartshop/rate"
	"github.com/irsalhamdi/smartshop/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	const prefix = "SMARTSHOP"
	var cfg config.Config
	if help, err := conf.Parse(prefix, &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime
	sessionManager.Cookie.Secure = cfg.Session.CookieSecure
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	store, closeStore, err := openStorage(cfg, sessionManager)
	if err != nil {
		return err
	}
	defer closeStore()

	carts := cart.NewProvider(store, logger, cfg.Cart.IdleTTL)
	defer carts.Close()

	be := backend.New(backend.Config{
		URL:              cfg.Backend.URL,
		Timeout:          cfg.Backend.Timeout,
		BreakerFailures:  cfg.Backend.BreakerFailures,
		BreakerOpenDelay: cfg.Backend.BreakerOpenDelay,
	})

	lim := rate.New(rate.Config{
		Burst:    cfg.RateLimit.Burst,
		Interval: cfg.RateLimit.Interval,
		Expiry:   cfg.RateLimit.Expiry,
	})
	defer lim.Stop()

	bg := background.New(logger)

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:    cfg.Cors.Origin,
		Log:           logger,
		Session:       sessionManager,
		Carts:         carts,
		Catalog:       catalog.NewClient(be),
		Accounts:      auth.NewClient(be),
		Orders:        order.NewClient(be),
		Payments:      checkout.NewStripe(cfg.Stripe.APISecret, cfg.Stripe.URL, logger),
		Background:    bg,
		Limiter:       lim,
		Currency:      cfg.Stripe.Currency,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		if err := bg.Shutdown(ctx); err != nil {
			return fmt.Errorf("could not complete all background tasks: %w", err)
		}
	}
	return nil
}

// openStorage builds the cart storage named by the config.
func openStorage(cfg config.Config, session *scs.SessionManager) (cart.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case "session":
		return storage.NewSession(session), func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		return storage.NewRedis(client, cfg.Redis.TTL), func() { client.Close() }, nil

	case "postgres":
		db, err := database.Open(cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		return storage.NewPostgres(db), func() { db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
