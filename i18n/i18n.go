// Package i18n holds the user-facing messages of the storefront in every
// supported language.
package i18n

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ro"
	ut "github.com/go-playground/universal-translator"
)

const (
	Generic          = "generic"
	EmailExists      = "email_exists"
	BadCredentials   = "bad_credentials"
	UserNotFound     = "user_not_found"
	NotAuthenticated = "not_authenticated"
	EmptyCart        = "empty_cart"
	PasswordMismatch = "password_mismatch"
	PasswordShort    = "password_short"
	InvalidPromo     = "invalid_promo"
	PaymentFailed    = "payment_failed"
	PricesChanged    = "prices_changed"
	ProductNotFound  = "product_not_found"
	WrongStep        = "wrong_step"
	TooManyRequests  = "too_many_requests"
	CartUnavailable  = "cart_unavailable"
)

// Fallback is the language used when the request asks for none we know.
const Fallback = "ro"

var messages = map[string]map[string]string{
	"ro": {
		Generic:          "A aparut o eroare. Te rugam sa incerci din nou.",
		EmailExists:      "Acest email este deja inregistrat. Te rugam sa folosesti alt email sau sa te conectezi.",
		BadCredentials:   "Email sau parola incorecta. Te rugam sa incerci din nou.",
		UserNotFound:     "Contul nu a fost gasit. Te rugam sa verifici email-ul sau sa te inregistrezi.",
		NotAuthenticated: "Te rugam sa te conectezi pentru a finaliza comanda.",
		EmptyCart:        "Cosul tau este gol.",
		PasswordMismatch: "Parolele nu coincid.",
		PasswordShort:    "Parola trebuie sa aiba cel putin 6 caractere.",
		InvalidPromo:     "Cod promotional invalid.",
		PaymentFailed:    "A aparut o eroare la procesarea platii.",
		PricesChanged:    "Preturile unor produse s-au modificat. Te rugam sa verifici cosul.",
		ProductNotFound:  "Produsul nu a fost gasit.",
		WrongStep:        "Te rugam sa completezi mai intai datele de livrare.",
		TooManyRequests:  "Prea multe incercari. Te rugam sa astepti putin.",
		CartUnavailable:  "Cosul nu poate fi incarcat acum. Te rugam sa reincerci.",
	},
	"en": {
		Generic:          "Something went wrong. Please try again.",
		EmailExists:      "This email is already registered. Please use another email or log in.",
		BadCredentials:   "Wrong email or password. Please try again.",
		UserNotFound:     "Account not found. Please check the email or register.",
		NotAuthenticated: "Please log in to complete the order.",
		EmptyCart:        "Your cart is empty.",
		PasswordMismatch: "Passwords do not match.",
		PasswordShort:    "Password must be at least 6 characters long.",
		InvalidPromo:     "Invalid promo code.",
		PaymentFailed:    "The payment could not be processed.",
		PricesChanged:    "Some prices have changed. Please review your cart.",
		ProductNotFound:  "Product not found.",
		WrongStep:        "Please fill in the delivery details first.",
		TooManyRequests:  "Too many attempts. Please wait a moment.",
		CartUnavailable:  "Your cart cannot be loaded right now. Please try again.",
	},
}

var uni *ut.UniversalTranslator

func init() {
	uni = ut.New(ro.New(), ro.New(), en.New())

	for locale, msgs := range messages {
		trans, _ := uni.GetTranslator(locale)
		for key, text := range msgs {
			if err := trans.Add(key, text, false); err != nil {
				panic(err)
			}
		}
	}
}

// Translator returns the translator for the first known locale, falling
// back to Romanian.
func Translator(locales ...string) ut.Translator {
	trans, _ := uni.FindTranslator(append(locales, Fallback)...)
	return trans
}

// FromRequest picks the translator matching the Accept-Language header.
func FromRequest(r *http.Request) ut.Translator {
	return Translator(acceptLanguages(r.Header.Get("Accept-Language"))...)
}

// T translates key, returning the key itself when it is unknown.
func T(trans ut.Translator, key string) string {
	s, err := trans.T(key)
	if err != nil {
		return key
	}
	return s
}

func acceptLanguages(header string) []string {
	var locales []string
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		locales = append(locales, base)
	}
	return locales
}

// messager is implemented by errors carrying the backend's own message.
type messager interface {
	BackendMessage() string
}

// Friendly turns an error coming from the remote API into a message fit for
// the customer.
func Friendly(err error, trans ut.Translator) string {
	var me messager
	if !errors.As(err, &me) || me.BackendMessage() == "" {
		return T(trans, Generic)
	}

	msg := me.BackendMessage()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "Email already exists") || strings.Contains(lower, "duplicate"):
		return T(trans, EmailExists)
	case strings.Contains(msg, "Email sau parola incorecta") || strings.Contains(lower, "bad credentials"):
		return T(trans, BadCredentials)
	case strings.Contains(msg, "User not found"):
		return T(trans, UserNotFound)
	case strings.Contains(msg, "Stripe"):
		return msg
	}
	return T(trans, Generic)
}
