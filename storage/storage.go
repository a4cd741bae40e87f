// Package storage provides the places a cart can be persisted to. Every
// backend stores opaque bytes under a string key and answers
// cart.ErrNotStored for keys it never saw.
package storage

import (
	"context"
	"fmt"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/smartshop/core/cart"
)

// Session keeps the data in the session of the request, so a cart lives as
// long as the browser session does.
type Session struct {
	session *scs.SessionManager
}

func NewSession(session *scs.SessionManager) *Session {
	return &Session{session: session}
}

func (s *Session) Load(ctx context.Context, key string) (data []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("loading %s outside of a session: %v", key, rec)
		}
	}()

	data = s.session.GetBytes(ctx, key)
	if data == nil {
		return nil, cart.ErrNotStored
	}
	return data, nil
}

func (s *Session) Save(ctx context.Context, key string, data []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("saving %s outside of a session: %v", key, rec)
		}
	}()

	s.session.Put(ctx, key, data)
	return nil
}
