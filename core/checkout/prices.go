package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/smartshop/core/cart"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const maxLookups = 4

// verifyPrices looks every line of s up in the catalog. Lines whose price
// moved are repriced, lines whose product is gone are dropped, and either
// case yields ErrPricesChanged.
func verifyPrices(ctx context.Context, s *cart.Store, cat cart.Catalog) error {
	items := s.Items()
	current := make([]decimal.Decimal, len(items))
	gone := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLookups)

	for i := range items {
		i := i
		g.Go(func() error {
			p, err := cat.CartProduct(gctx, items[i].ID)
			if errors.Is(err, cart.ErrUnknownProduct) {
				gone[i] = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("looking up product[%d]: %w", items[i].ID, err)
			}
			current[i] = p.Price
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	changed := false
	for i, it := range items {
		switch {
		case gone[i]:
			s.RemoveItem(ctx, it.ID)
			changed = true
		case !it.Price.Equal(current[i]):
			s.Reprice(ctx, it.ID, current[i])
			changed = true
		}
	}

	if changed {
		return ErrPricesChanged
	}
	return nil
}
