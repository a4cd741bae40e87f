package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/i18n"
	"github.com/irsalhamdi/smartshop/validate"
)

func HandleShow() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := Get(ctx)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, s.Summary(), http.StatusOK)
	}
}

func HandleDelete() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := Get(ctx)
		if err != nil {
			return err
		}

		s.Clear(ctx)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleCreateItem(cat Catalog) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := Get(ctx)
		if err != nil {
			return err
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		p, err := cat.CartProduct(ctx, in.ProductID)
		if errors.Is(err, ErrUnknownProduct) {
			return weberr.Translated(r, err, i18n.ProductNotFound, http.StatusNotFound)
		}
		if err != nil {
			return weberr.Backend(r, fmt.Errorf("fetching product[%d]: %w", in.ProductID, err), http.StatusBadGateway)
		}

		s.AddItem(ctx, p)

		return web.Respond(ctx, w, s.Summary(), http.StatusOK)
	}
}

func HandleUpdateItem() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := Get(ctx)
		if err != nil {
			return err
		}

		id, err := itemID(r)
		if err != nil {
			return err
		}

		var in ItemUp
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		s.UpdateQuantity(ctx, id, *in.Quantity)

		return web.Respond(ctx, w, s.Summary(), http.StatusOK)
	}
}

func HandleDeleteItem() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := Get(ctx)
		if err != nil {
			return err
		}

		id, err := itemID(r)
		if err != nil {
			return err
		}

		s.RemoveItem(ctx, id)

		return web.Respond(ctx, w, s.Summary(), http.StatusOK)
	}
}

func HandleApplyPromo() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := Get(ctx)
		if err != nil {
			return err
		}

		var in PromoNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		if !s.ApplyPromo(in.Code) {
			err := fmt.Errorf("promo code %q not recognised", in.Code)
			return weberr.Translated(r, err, i18n.InvalidPromo, http.StatusUnprocessableEntity)
		}

		return web.Respond(ctx, w, s.Summary(), http.StatusOK)
	}
}

func itemID(r *http.Request) (int64, error) {
	id, err := web.ParamID(r, "id")
	if err != nil {
		return 0, weberr.BadRequest(fmt.Errorf("item: %w", err))
	}
	return id, nil
}
