package test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/shopspring/decimal"
)

type cartTest struct {
	*TestEnv
}

func TestCart(t *testing.T) {
	env, err := NewTestEnv(t, "cart_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	rt := &cartTest{env}

	sum := rt.showCartOK(t)
	if len(sum.Items) != 0 || !sum.Shipping.IsZero() {
		t.Fatalf("expected an empty cart without shipping, got %+v", sum)
	}

	rt.createItemOK(t, 2)
	sum = rt.createItemOK(t, 2)
	if sum.TotalItems != 2 || !sum.Subtotal.Equal(decimal.RequireFromString("499.98")) {
		t.Fatalf("unexpected cart %+v", sum)
	}
	if !sum.Shipping.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected shipping 25 below 500, got %s", sum.Shipping)
	}

	rt.createItemOK(t, 1)
	sum = rt.updateItemOK(t, 2, 1)
	if sum.TotalItems != 2 || !sum.Shipping.IsZero() {
		t.Fatalf("unexpected cart after update %+v", sum)
	}

	if code, _ := Request(rt.Server, http.MethodPost, "/cart/items", cart.ItemNew{ProductID: 99}, nil); code != http.StatusNotFound {
		t.Fatalf("expected unknown product to be refused, got %d", code)
	}

	if code, _ := Request(rt.Server, http.MethodPost, "/cart/promo", cart.PromoNew{Code: "SMART20"}, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected invalid promo to be refused, got %d", code)
	}

	var promo cart.Summary
	if code, err := Request(rt.Server, http.MethodPost, "/cart/promo", cart.PromoNew{Code: "Smart10"}, &promo); err != nil || code != http.StatusOK {
		t.Fatalf("applying promo: status %d: %v", code, err)
	}
	// 3199 + 249.99, minus 10%.
	if !promo.Total.Equal(decimal.RequireFromString("3104.091")) {
		t.Fatalf("unexpected total with promo %s", promo.Total)
	}

	sum = rt.deleteItemOK(t, 1)
	sum = rt.deleteItemOK(t, 1)
	if sum.TotalItems != 1 {
		t.Fatalf("expected removing twice to be harmless, got %+v", sum)
	}

	rt.clearOK(t)
	if sum = rt.showCartOK(t); len(sum.Items) != 0 || sum.PromoApplied {
		t.Fatalf("expected a cleared cart, got %+v", sum)
	}
}

func (rt *cartTest) showCartOK(t *testing.T) cart.Summary {
	t.Helper()
	var sum cart.Summary
	if code, err := Request(rt.Server, http.MethodGet, "/cart", nil, &sum); err != nil || code != http.StatusOK {
		t.Fatalf("can't show cart: status code %d: %v", code, err)
	}
	return sum
}

func (rt *cartTest) createItemOK(t *testing.T, productID int64) cart.Summary {
	t.Helper()
	var sum cart.Summary
	if code, err := Request(rt.Server, http.MethodPost, "/cart/items", cart.ItemNew{ProductID: productID}, &sum); err != nil || code != http.StatusOK {
		t.Fatalf("can't add product[%d] to cart: status code %d: %v", productID, code, err)
	}
	return sum
}

func (rt *cartTest) updateItemOK(t *testing.T, productID int64, quantity int) cart.Summary {
	t.Helper()
	var sum cart.Summary
	path := "/cart/items/" + strconv.FormatInt(productID, 10)
	if code, err := Request(rt.Server, http.MethodPut, path, cart.ItemUp{Quantity: &quantity}, &sum); err != nil || code != http.StatusOK {
		t.Fatalf("can't update product[%d]: status code %d: %v", productID, code, err)
	}
	return sum
}

func (rt *cartTest) deleteItemOK(t *testing.T, productID int64) cart.Summary {
	t.Helper()
	var sum cart.Summary
	if code, err := Request(rt.Server, http.MethodDelete, "/cart/items/"+strconv.FormatInt(productID, 10), nil, &sum); err != nil || code != http.StatusOK {
		t.Fatalf("can't delete product[%d]: status code %d: %v", productID, code, err)
	}
	return sum
}

func (rt *cartTest) clearOK(t *testing.T) {
	t.Helper()
	if code, err := Request(rt.Server, http.MethodDelete, "/cart", nil, nil); err != nil || code != http.StatusNoContent {
		t.Fatalf("can't clear cart: status code %d: %v", code, err)
	}
}
