package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/backend"
	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/irsalhamdi/smartshop/core/claims"
	"github.com/irsalhamdi/smartshop/core/order"
	"github.com/irsalhamdi/smartshop/i18n"
	"github.com/irsalhamdi/smartshop/validate"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

func HandleShow(session *scs.SessionManager, currency string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := cart.Get(ctx)
		if err != nil {
			return err
		}

		if s.Empty() {
			return weberr.Translated(r, errors.New("cart is empty"), i18n.EmptyCart, http.StatusUnprocessableEntity)
		}

		st := loadState(ctx, session)
		v := View{
			Step:     st.Step,
			Delivery: st.Delivery,
			Amount:   cart.CheckoutTotal(s.TotalPrice()),
			Currency: currency,
			Cart:     s.Summary(),
		}
		if st.Step == StepPayment {
			v.ClientSecret = st.ClientSecret
		}

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

func HandleDelivery(session *scs.SessionManager, cat cart.Catalog, pay Payments, currency string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := cart.Get(ctx)
		if err != nil {
			return err
		}

		if s.Empty() {
			return weberr.Translated(r, errors.New("cart is empty"), i18n.EmptyCart, http.StatusUnprocessableEntity)
		}

		var in DeliveryDetails
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		switch err := verifyPrices(ctx, s, cat); {
		case errors.Is(err, ErrPricesChanged):
			return weberr.Translated(r, err, i18n.PricesChanged, http.StatusConflict)
		case err != nil:
			return weberr.Backend(r, fmt.Errorf("verifying cart prices: %w", err), http.StatusBadGateway)
		}

		amount := cart.CheckoutTotal(s.TotalPrice())
		intent, err := pay.CreateIntent(ctx, amount, currency)
		if err != nil {
			return weberr.Translated(r, err, i18n.PaymentFailed, http.StatusBadGateway, weberr.WithField("cart", s.Key()))
		}

		st := State{
			Step:            StepPayment,
			Delivery:        &in,
			PaymentIntentID: intent.ID,
			ClientSecret:    intent.ClientSecret,
			Items:           s.Items(),
			Amount:          amount,
			Currency:        currency,
		}
		if err := saveState(ctx, session, st); err != nil {
			return err
		}

		v := View{
			Step:         st.Step,
			Delivery:     st.Delivery,
			ClientSecret: st.ClientSecret,
			Amount:       amount,
			Currency:     currency,
			Cart:         s.Summary(),
		}
		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

func HandlePayment(session *scs.SessionManager, pay Payments, orders Orders, bg Runner) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := cart.Get(ctx)
		if err != nil {
			return err
		}

		st := loadState(ctx, session)
		if st.Step != StepPayment || st.Delivery == nil {
			return weberr.Translated(r, ErrWrongStep, i18n.WrongStep, http.StatusConflict)
		}

		var in PaymentNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		clm, err := claims.Get(ctx)
		if err != nil {
			return loginRequired(r, err)
		}

		pi := weberr.WithField("payment_intent", in.PaymentIntentID)

		if in.PaymentIntentID != st.PaymentIntentID {
			err := fmt.Errorf("payment intent[%s] does not belong to this checkout", in.PaymentIntentID)
			return weberr.Translated(r, err, i18n.PaymentFailed, http.StatusPaymentRequired, pi)
		}

		intent, err := pay.FetchIntent(ctx, in.PaymentIntentID)
		if err != nil {
			return weberr.Translated(r, err, i18n.PaymentFailed, http.StatusBadGateway, pi)
		}
		if intent.Status != IntentSucceeded {
			err := fmt.Errorf("payment intent[%s] is %s: %w", intent.ID, intent.Status, ErrPaymentIncomplete)
			return weberr.Translated(r, err, i18n.PaymentFailed, http.StatusPaymentRequired, pi)
		}

		if s.Empty() {
			return weberr.Translated(r, errors.New("cart is empty"), i18n.EmptyCart, http.StatusUnprocessableEntity)
		}

		items := s.Items()
		if err := st.paidFor(items, intent); err != nil {
			// The customer reviews the cart and pays for it again.
			if err := saveState(ctx, session, State{Step: StepDelivery, Delivery: st.Delivery}); err != nil {
				return err
			}
			return weberr.Translated(r, err, i18n.PricesChanged, http.StatusConflict, pi)
		}

		ord, err := orders.Create(ctx, clm.Token, orderRequest(items, *st.Delivery))
		if backend.IsStatus(err, http.StatusUnauthorized) {
			return loginRequired(r, err)
		}
		if err != nil {
			return weberr.Backend(r, err, http.StatusBadGateway, pi, weberr.WithField("user", clm.Email))
		}

		token, id, orderID := clm.Token, intent.ID, ord.ID
		bg.Submit("payment-success", func(ctx context.Context) error {
			if err := pay.AttachOrder(ctx, id, orderID); err != nil {
				return err
			}
			return orders.PaymentSucceeded(ctx, token, id)
		})

		s.Clear(ctx)
		resetState(ctx, session)

		return web.Respond(ctx, w, Placed{Order: ord, Redirect: successPath(id)}, http.StatusCreated)
	}
}

// HandleWebhook checks the signature of Stripe events and relays payment
// outcomes to the remote API. The storefront has no customer token here, so
// the event goes to the one payment endpoint open without it.
func HandleWebhook(secret string, orders Orders, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 65536))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot read the request body: %w", err))
		}

		sig := r.Header.Get("Stripe-Signature")
		if sig == "" {
			return weberr.BadRequest(errors.New("received stripe event is not signed"))
		}

		event, err := webhook.ConstructEvent(b, sig, secret)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot construct stripe event: %w", err))
		}

		switch event.Type {
		case "payment_intent.succeeded", "payment_intent.payment_failed":
		default:
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode stripe event: %w", err))
		}

		log.WithFields(logrus.Fields{
			"event":          event.Type,
			"payment_intent": pi.ID,
			"order":          pi.Metadata["orderId"],
		}).Info("stripe event")

		if err := orders.ForwardWebhook(ctx, b, sig); err != nil {
			err = fmt.Errorf("forwarding %s: %w", event.Type, err)
			return weberr.Backend(r, err, http.StatusBadGateway, weberr.WithField("payment_intent", pi.ID))
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func loginRequired(r *http.Request, err error) error {
	body := LoginRequired{
		Error:    i18n.T(i18n.FromRequest(r), i18n.NotAuthenticated),
		Redirect: loginRedirect,
	}
	return weberr.Respond(err, body, http.StatusUnauthorized)
}

func orderRequest(items []cart.LineItem, d DeliveryDetails) order.OrderRequest {
	req := order.OrderRequest{
		Items:              make([]order.ItemRequest, 0, len(items)),
		Total:              cart.CheckoutTotal(cart.TotalPrice(items)),
		DeliveryName:       d.Name(),
		DeliveryEmail:      d.Email,
		DeliveryPhone:      d.Phone,
		DeliveryAddress:    d.Address,
		DeliveryCity:       d.City,
		DeliveryCounty:     "",
		DeliveryPostalCode: d.PostalCode,
		DeliveryCountry:    Country,
		DeliveryNotes:      d.Notes,
	}

	for _, it := range items {
		req.Items = append(req.Items, order.ItemRequest{
			Product:  order.ProductRef{ID: it.ID},
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return req
}
