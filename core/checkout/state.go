package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/shopspring/decimal"
)

const stateKey = "checkout"

// State is the progress of the checkout of one session. Items and Amount
// are what the payment intent was opened for.
type State struct {
	Step            Step             `json:"step"`
	Delivery        *DeliveryDetails `json:"delivery,omitempty"`
	PaymentIntentID string           `json:"paymentIntentId,omitempty"`
	ClientSecret    string           `json:"clientSecret,omitempty"`
	Items           []cart.LineItem  `json:"items,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency,omitempty"`
}

// paidFor checks that items and intent still match what the payment was
// opened for.
func (st State) paidFor(items []cart.LineItem, in Intent) error {
	if !sameItems(st.Items, items) {
		return ErrCartChanged
	}
	if total := cart.CheckoutTotal(cart.TotalPrice(items)); !total.Equal(st.Amount) {
		return fmt.Errorf("cart total %s, opened for %s: %w", total, st.Amount, ErrCartChanged)
	}
	if !in.Amount.Equal(st.Amount) || !strings.EqualFold(in.Currency, st.Currency) {
		return fmt.Errorf("intent[%s] is for %s %s, opened for %s %s: %w",
			in.ID, in.Amount, in.Currency, st.Amount, st.Currency, ErrCartChanged)
	}
	return nil
}

func sameItems(a, b []cart.LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Quantity != b[i].Quantity || !a[i].Price.Equal(b[i].Price) {
			return false
		}
	}
	return true
}

// loadState starts over at the delivery step when the session holds no
// usable state.
func loadState(ctx context.Context, session *scs.SessionManager) State {
	st := State{Step: StepDelivery}

	b := session.GetBytes(ctx, stateKey)
	if len(b) == 0 {
		return st
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return State{Step: StepDelivery}
	}
	return st
}

func saveState(ctx context.Context, session *scs.SessionManager, st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding checkout state: %w", err)
	}
	session.Put(ctx, stateKey, b)
	return nil
}

func resetState(ctx context.Context, session *scs.SessionManager) {
	session.Remove(ctx, stateKey)
}
