package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/core/claims"
	"github.com/irsalhamdi/smartshop/i18n"
)

const (
	tokenKey     = "token"
	emailKey     = "email"
	firstNameKey = "first_name"
	lastNameKey  = "last_name"
)

// LoadAndSave loads the session of the request and commits it once the
// handler is done.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var herr error
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				herr = handler(r.Context(), w, r)
			})

			session.LoadAndSave(next).ServeHTTP(w, r.WithContext(ctx))
			return herr
		}
		return h
	}
	return m
}

// LoadClaims exposes the customer stored in the session as claims.
func LoadClaims(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if token := session.GetString(ctx, tokenKey); token != "" {
				ctx = claims.Set(ctx, claims.Claims{
					Token:     token,
					Email:     session.GetString(ctx, emailKey),
					FirstName: session.GetString(ctx, firstNameKey),
					LastName:  session.GetString(ctx, lastNameKey),
				})
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Authenticate rejects requests without a logged in customer.
func Authenticate() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.IsAuthenticated(ctx) {
				err := errors.New("user not authenticated")
				return weberr.Translated(r, err, i18n.NotAuthenticated, http.StatusUnauthorized)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func login(ctx context.Context, session *scs.SessionManager, token string, p Profile) error {
	if err := session.RenewToken(ctx); err != nil {
		return err
	}

	session.Put(ctx, tokenKey, token)
	session.Put(ctx, emailKey, p.Email)
	if p.FirstName != "" {
		session.Put(ctx, firstNameKey, p.FirstName)
	}
	if p.LastName != "" {
		session.Put(ctx, lastNameKey, p.LastName)
	}
	return nil
}

func logout(ctx context.Context, session *scs.SessionManager) error {
	for _, k := range []string{tokenKey, emailKey, firstNameKey, lastNameKey} {
		session.Remove(ctx, k)
	}
	return session.RenewToken(ctx)
}
