package checkout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

// Stripe implements Payments with Stripe payment intents.
type Stripe struct {
	api *stripecl.API
}

// NewStripe builds the Stripe client. A non empty url replaces the Stripe
// API endpoint.
func NewStripe(key string, url string, log logrus.FieldLogger) *Stripe {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
	}
	if log != nil {
		cfg.LeveledLogger = log
	}
	if url != "" {
		cfg.URL = stripe.String(url)
	}

	b := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)

	api := &stripecl.API{}
	api.Init(key, &stripe.Backends{API: b, Connect: b, Uploads: b})

	return &Stripe{api: api}
}

func (s *Stripe) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("creating stripe payment intent: %w", err)
	}

	return intent(pi), nil
}

func (s *Stripe) FetchIntent(ctx context.Context, id string) (Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		return Intent{}, fmt.Errorf("fetching stripe payment intent[%s]: %w", id, err)
	}

	return intent(pi), nil
}

func (s *Stripe) AttachOrder(ctx context.Context, intentID string, orderID int64) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddMetadata("orderId", strconv.FormatInt(orderID, 10))

	if _, err := s.api.PaymentIntents.Update(intentID, params); err != nil {
		return fmt.Errorf("attaching order[%d] to stripe payment intent[%s]: %w", orderID, intentID, err)
	}
	return nil
}

func intent(pi *stripe.PaymentIntent) Intent {
	return Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       IntentStatus(pi.Status),
		Amount:       decimal.New(pi.Amount, -2),
		Currency:     string(pi.Currency),
	}
}

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
