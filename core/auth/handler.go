package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/core/claims"
	"github.com/irsalhamdi/smartshop/i18n"
	"github.com/irsalhamdi/smartshop/validate"
)

func HandleLogin(svc Service, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in Login
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		token, err := svc.Login(ctx, in)
		if errors.Is(err, ErrBadCredentials) {
			return weberr.Translated(r, err, i18n.BadCredentials, http.StatusUnauthorized)
		}
		if err != nil {
			return weberr.Backend(r, err, http.StatusBadGateway)
		}

		p := Profile{Email: in.Email}
		if err := login(ctx, session, token, p); err != nil {
			return fmt.Errorf("storing session of user[%s]: %w", in.Email, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleSignup(svc Service, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in SignupNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		switch err := in.checkPasswords(); {
		case errors.Is(err, ErrPasswordMismatch):
			return weberr.Translated(r, err, i18n.PasswordMismatch, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordShort):
			return weberr.Translated(r, err, i18n.PasswordShort, http.StatusBadRequest)
		}

		token, err := svc.Register(ctx, in)
		if err != nil {
			return weberr.Backend(r, err, http.StatusBadGateway)
		}

		// Older backends answer the registration without a token.
		if token == "" {
			token, err = svc.Login(ctx, Login{Email: in.Email, Password: in.Password})
			if err != nil {
				return weberr.Backend(r, fmt.Errorf("logging in after signup: %w", err), http.StatusBadGateway)
			}
		}

		p := Profile{Email: in.Email, FirstName: in.FirstName, LastName: in.LastName}
		if err := login(ctx, session, token, p); err != nil {
			return fmt.Errorf("storing session of user[%s]: %w", in.Email, err)
		}

		return web.Respond(ctx, w, p, http.StatusCreated)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := logout(ctx, session); err != nil {
			return fmt.Errorf("dropping session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleShowCurrent() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.Translated(r, err, i18n.NotAuthenticated, http.StatusUnauthorized)
		}

		p := Profile{Email: clm.Email, FirstName: clm.FirstName, LastName: clm.LastName}
		return web.Respond(ctx, w, p, http.StatusOK)
	}
}
