package claims

import (
	"context"
	"testing"
)

func TestClaims(t *testing.T) {
	ctx := context.Background()
	if IsAuthenticated(ctx) {
		t.Fatal("empty context must not be authenticated")
	}
	if _, err := Get(ctx); err == nil {
		t.Fatal("expected an error without claims")
	}

	ctx = Set(ctx, Claims{Token: "t", Email: "ana@example.com", FirstName: "Ana"})
	if !IsAuthenticated(ctx) {
		t.Fatal("expected authenticated context")
	}

	c, err := Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "Ana" {
		t.Fatalf("expected trimmed name, got %q", c.Name())
	}
}
