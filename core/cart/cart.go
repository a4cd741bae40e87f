package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend speaks BigDecimal, which it expects as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is what the catalog hands over when a customer adds something to
// the cart.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

type LineItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// Subtotal is the unit price times the quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Summary struct {
	Items        []LineItem      `json:"items"`
	TotalItems   int             `json:"totalItems"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	PromoApplied bool            `json:"promoApplied"`
	// Shown next to the shipping cost.
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
}

type ItemNew struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type ItemUp struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type PromoNew struct {
	Code string `json:"code" validate:"required"`
}

// Catalog resolves product ids into products that can be added to a cart.
type Catalog interface {
	CartProduct(ctx context.Context, id int64) (Product, error)
}

// ErrUnknownProduct is returned by a Catalog for ids it does not know.
var ErrUnknownProduct = errors.New("unknown product")
