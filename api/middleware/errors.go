package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/i18n"
	"github.com/sirupsen/logrus"
)

// Errors renders handler errors. Decorated errors answer with their own body
// and status; anything else is a 500 with the generic message in the
// customer's language.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			entry := log.WithError(err).WithField("req_id", ContextRequestID(ctx))
			if f, ok := weberr.Fields(err); ok {
				entry = entry.WithFields(logrus.Fields(f))
			}

			body, status, ok := weberr.Response(err)
			if !ok {
				body = weberr.ErrorResponse{Error: i18n.T(i18n.FromRequest(r), i18n.Generic)}
				status = http.StatusInternalServerError
			}
			entry = entry.WithField("status", status)

			switch {
			case status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case status == http.StatusNotFound:
				entry.Debug("request rejected")
			default:
				entry.Warn("request rejected")
			}

			return web.Respond(ctx, w, body, status)
		}
		return h
	}
	return m
}
