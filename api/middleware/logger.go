package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

func Logger(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			log := log

			if rid := ContextRequestID(ctx); rid != "" {
				log = log.WithField("req_id", rid)
			}

			log = log.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"client": clientAddr(r),
			})

			log.Debug("started")
			start := time.Now()

			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			log = log.WithFields(logrus.Fields{
				"status":   lw.Status(),
				"bytes":    lw.BytesWritten(),
				"duration": time.Since(start).String(),
			})

			// Backend outages show up as 502s.
			if lw.Status() >= http.StatusInternalServerError {
				log.Warn("completed")
				return err
			}
			log.Info("completed")
			return err
		}
		return h
	}
	return m
}
