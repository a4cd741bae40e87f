package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PromoCode is matched ignoring letter case.
const PromoCode = "smart10"

var (
	FreeShippingThreshold = decimal.NewFromInt(500)
	ShippingFee           = decimal.NewFromInt(25)
	PromoRate             = decimal.New(1, -1)
)

// ShippingCost is free from FreeShippingThreshold upwards and a flat fee
// below it.
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

func PromoDiscount(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(PromoRate)
}

// CheckoutTotal is the amount charged at checkout: the subtotal plus
// shipping.
func CheckoutTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(ShippingCost(subtotal))
}

// TotalPrice is the sum of the line subtotals.
func TotalPrice(items []LineItem) decimal.Decimal {
	tot := decimal.Zero
	for _, it := range items {
		tot = tot.Add(it.Subtotal())
	}
	return tot
}

func isPromoCode(code string) bool {
	return strings.EqualFold(code, PromoCode)
}

func summarize(items []LineItem, promo bool) Summary {
	sum := Summary{
		Items:                 items,
		Subtotal:              decimal.Zero,
		Discount:              decimal.Zero,
		PromoApplied:          promo,
		FreeShippingThreshold: FreeShippingThreshold,
	}

	for _, it := range items {
		sum.TotalItems += it.Quantity
		sum.Subtotal = sum.Subtotal.Add(it.Subtotal())
	}

	// Nothing to ship.
	sum.Shipping = decimal.Zero
	if len(items) > 0 {
		sum.Shipping = ShippingCost(sum.Subtotal)
	}
	if promo {
		sum.Discount = PromoDiscount(sum.Subtotal)
	}
	sum.Total = sum.Subtotal.Add(sum.Shipping).Sub(sum.Discount)

	return sum
}
