package config

import (
	"time"

	"github.com/irsalhamdi/smartshop/database"
)

type Config struct {
	Web       Web
	Cors      Cors
	Session   Session
	Backend   Backend
	Stripe    Stripe
	Storage   Storage
	Redis     Redis
	DB        database.Config
	Cart      Cart
	RateLimit RateLimit
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string `conf:"default:http://localhost:3000"`
}

type Session struct {
	Lifetime     time.Duration `conf:"default:720h"`
	CookieSecure bool          `conf:"default:false"`
}

type Backend struct {
	URL              string        `conf:"default:https://smartshop-backend.fly.dev/api"`
	Timeout          time.Duration `conf:"default:15s"`
	BreakerFailures  uint32        `conf:"default:5"`
	BreakerOpenDelay time.Duration `conf:"default:30s"`
}

type Stripe struct {
	APISecret     string `conf:"mask"`
	WebhookSecret string `conf:"mask"`
	Currency      string `conf:"default:ron"`
	// URL overrides the Stripe API endpoint, e.g. for stripe-mock.
	URL string
}

type Storage struct {
	// Driver is one of session, redis or postgres.
	Driver string `conf:"default:session"`
}

type Redis struct {
	Address  string        `conf:"default:localhost:6379"`
	Password string        `conf:"mask"`
	DB       int           `conf:"default:0"`
	TTL      time.Duration `conf:"default:720h"`
}

type Cart struct {
	IdleTTL time.Duration `conf:"default:30m"`
}

type RateLimit struct {
	Burst    int           `conf:"default:5"`
	Interval time.Duration `conf:"default:2s"`
	Expiry   time.Duration `conf:"default:10m"`
}
