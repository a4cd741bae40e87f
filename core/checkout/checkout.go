// Package checkout turns a cart into a paid order in two steps: the
// delivery details, which open a payment intent, and the payment, which
// places the order once the intent succeeded.
package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/irsalhamdi/smartshop/core/order"
	"github.com/shopspring/decimal"
)

// Country is the only country deliveries go to.
const Country = "Romania"

type DeliveryDetails struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,digits"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required,digits"`
	Notes      string `json:"notes"`
}

// Name is the recipient as written on the order.
func (d DeliveryDetails) Name() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

type Step int

const (
	StepDelivery Step = iota + 1
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepPayment:
		return "payment"
	default:
		return "delivery"
	}
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	switch string(b) {
	case "payment":
		*s = StepPayment
	default:
		*s = StepDelivery
	}
	return nil
}

type IntentStatus string

const (
	IntentSucceeded  IntentStatus = "succeeded"
	IntentProcessing IntentStatus = "processing"
	IntentCanceled   IntentStatus = "canceled"
)

type Intent struct {
	ID           string          `json:"id"`
	ClientSecret string          `json:"clientSecret"`
	Status       IntentStatus    `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// Payments opens and inspects payment intents at the payment processor.
type Payments interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (Intent, error)
	FetchIntent(ctx context.Context, id string) (Intent, error)
	// AttachOrder records the order an intent paid for. The remote API finds
	// the order of a payment through it.
	AttachOrder(ctx context.Context, intentID string, orderID int64) error
}

// Orders places orders and hands payment events to the remote API.
type Orders interface {
	Create(ctx context.Context, token string, req order.OrderRequest) (order.Order, error)
	PaymentSucceeded(ctx context.Context, token string, paymentIntentID string) error
	ForwardWebhook(ctx context.Context, payload []byte, signature string) error
}

// Runner runs work that outlives the request.
type Runner interface {
	Submit(name string, fn func(ctx context.Context) error)
}

var (
	ErrWrongStep         = errors.New("checkout is not at the payment step")
	ErrPaymentIncomplete = errors.New("payment intent has not succeeded")
	ErrPricesChanged     = errors.New("cart prices changed")
	ErrCartChanged       = errors.New("cart changed after the payment was opened")
)

type PaymentNew struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// View is the checkout as shown to the customer.
type View struct {
	Step         Step             `json:"step"`
	Delivery     *DeliveryDetails `json:"delivery,omitempty"`
	ClientSecret string           `json:"clientSecret,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	Currency     string           `json:"currency"`
	Cart         cart.Summary     `json:"cart"`
}

type Placed struct {
	Order    order.Order `json:"order"`
	Redirect string      `json:"redirect"`
}

// LoginRequired answers payments attempted without a logged in customer.
type LoginRequired struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

const loginRedirect = "/login?redirect=/checkout"

func successPath(paymentIntentID string) string {
	return "/checkout/success?payment_intent=" + paymentIntentID
}
