package claims

import (
	"context"
	"errors"
	"strings"
)

// Claims is what the session knows about the logged in customer. The token
// is opaque here; the backend issues and verifies it.
type Claims struct {
	Token     string
	Email     string
	FirstName string
	LastName  string
}

func (c Claims) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

func IsAuthenticated(ctx context.Context) bool {
	c, err := Get(ctx)
	return err == nil && c.Token != ""
}
