package intent

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"tecnostore/internal/domain"
	"tecnostore/internal/service/analytics"
	"tecnostore/internal/service/catalog"
	"tecnostore/internal/service/gesture"
	"tecnostore/internal/service/handoff"
	"tecnostore/internal/service/ledger"
)

const (
	contactThanks    = "Thank you for your message! We will get back to you soon."
	newsletterThanks = "Thank you for subscribing to our newsletter!"
)

// Catalog is the product side of the storefront.
type Catalog interface {
	Find(id int64) (domain.Product, error)
	Add(ctx context.Context, f domain.ProductFields) (domain.Product, error)
	Update(ctx context.Context, id int64, f domain.ProductFields) (domain.Product, error)
	Remove(ctx context.Context, id int64) (bool, error)
	Query(q catalog.Query) ([]domain.Product, error)
}

// Carts resolves the ledger for a session and keeps it resident until
// release is called.
type Carts interface {
	Acquire(ctx context.Context, sessionID string) (lg *ledger.Ledger, release func(), err error)
}

type Tracker interface {
	Track(ctx context.Context, e analytics.Event) error
}

// Actor is who sent the intent.
type Actor struct {
	SessionID string
	Admin     bool
}

type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Result carries whatever the handled intent produced.
type Result struct {
	Type     Kind             `json:"type"`
	Cart     *ledger.View     `json:"cart,omitempty"`
	Product  *domain.Product  `json:"product,omitempty"`
	Products []domain.Product `json:"products,omitempty"`
	Removed  *bool            `json:"removed,omitempty"`
	Order    *handoff.Order   `json:"order,omitempty"`
	Notice   *Notice          `json:"notice,omitempty"`
	Action   gesture.Action   `json:"action,omitempty"`
}

// Dispatcher routes commands to the component that owns them.
type Dispatcher struct {
	catalog Catalog
	carts   Carts
	tracker Tracker
	logger  *zap.Logger
}

func NewDispatcher(c Catalog, carts Carts, tracker Tracker, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{catalog: c, carts: carts, tracker: tracker, logger: logger}
}

// Dispatch validates cmd and applies it on behalf of actor.
func (d *Dispatcher) Dispatch(ctx context.Context, actor Actor, cmd Command) (Result, error) {
	if cmd == nil {
		return Result{}, fmt.Errorf("%w: empty intent", domain.ErrInvalidInput)
	}
	if err := binding.Validator.ValidateStruct(cmd); err != nil {
		return Result{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	res := Result{Type: cmd.Kind()}
	d.logger.Debug("intent: dispatch", zap.String("type", string(res.Type)), zap.String("session", actor.SessionID))

	switch c := cmd.(type) {
	case *AddToCart:
		return d.addToCart(ctx, actor, int64(c.ProductID), res)
	case *RemoveFromCart:
		return d.withCart(ctx, actor, res, func(lg *ledger.Ledger) error {
			return lg.RemoveItem(ctx, int64(c.ProductID))
		})
	case *AdjustQuantity:
		return d.withCart(ctx, actor, res, func(lg *ledger.Ledger) error {
			return lg.UpdateQuantity(ctx, int64(c.ProductID), c.Direction)
		})
	case *Checkout:
		return d.checkout(ctx, actor, res)

	case *AddProduct:
		if !actor.Admin {
			return res, domain.ErrUnauthorized
		}
		p, err := d.catalog.Add(ctx, c.Product)
		if err != nil {
			return res, err
		}
		res.Product = &p
		return res, nil
	case *UpdateProduct:
		if !actor.Admin {
			return res, domain.ErrUnauthorized
		}
		p, err := d.catalog.Update(ctx, int64(c.ProductID), c.Product)
		if err != nil {
			return res, err
		}
		res.Product = &p
		return res, nil
	case *RemoveProduct:
		if !actor.Admin {
			return res, domain.ErrUnauthorized
		}
		removed, err := d.catalog.Remove(ctx, int64(c.ProductID))
		if err != nil {
			return res, err
		}
		res.Removed = &removed
		return res, nil
	case *QueryCatalog:
		products, err := d.catalog.Query(c.Query)
		if err != nil {
			return res, err
		}
		res.Products = products
		return res, nil

	case *SubmitContact:
		d.track(ctx, actor, analytics.EventContact, map[string]any{"name": c.Name})
		res.Notice = &Notice{Level: "success", Message: contactThanks}
		return res, nil
	case *Subscribe:
		d.track(ctx, actor, analytics.EventNewsletter, nil)
		res.Notice = &Notice{Level: "success", Message: newsletterThanks}
		return res, nil

	case *Swipe:
		res.Action = gesture.Swipe(c.StartX, c.EndX)
		return res, nil
	case *Pull:
		res.Action = gesture.Pull(c.ScrollY, c.StartY, c.EndY)
		return res, nil

	case *ToggleWishlist:
		product, err := d.catalog.Find(int64(c.ProductID))
		if err != nil {
			return res, err
		}
		if c.Active {
			res.Notice = &Notice{Level: "success", Message: fmt.Sprintf("Added %s to wishlist", product.Name)}
		} else {
			res.Notice = &Notice{Level: "info", Message: fmt.Sprintf("Removed %s from wishlist", product.Name)}
		}
		return res, nil

	case *Track:
		if d.tracker == nil {
			return res, nil
		}
		err := d.tracker.Track(ctx, analytics.Event{Name: c.Name, SessionID: actor.SessionID, Params: c.Params})
		return res, err
	}
	return res, fmt.Errorf("%w: unhandled intent %T", domain.ErrInvalidInput, cmd)
}

func (d *Dispatcher) addToCart(ctx context.Context, actor Actor, id int64, res Result) (Result, error) {
	product, err := d.catalog.Find(id)
	if err != nil {
		return res, err
	}
	if !product.InStock() {
		return res, fmt.Errorf("product %d: %w", id, domain.ErrOutOfStock)
	}
	res, err = d.withCart(ctx, actor, res, func(lg *ledger.Ledger) error {
		return lg.AddItem(ctx, product.Snapshot())
	})
	if err == nil {
		d.track(ctx, actor, analytics.EventAddToCart, map[string]any{
			"product_id":    product.ID,
			"product_name":  product.Name,
			"product_price": product.Price,
		})
	}
	return res, err
}

func (d *Dispatcher) checkout(ctx context.Context, actor Actor, res Result) (Result, error) {
	lg, release, err := d.cart(ctx, actor)
	if err != nil {
		return res, err
	}
	defer release()
	order, err := lg.Checkout(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			res.Notice = &Notice{Level: "error", Message: "Your cart is empty!"}
		}
		return res, err
	}
	res.Order = &order
	d.track(ctx, actor, analytics.EventCheckout, map[string]any{"total": order.Total, "lines": len(order.Lines)})
	return res, nil
}

// withCart applies fn and reports the cart view. A persistence failure
// still returns the view since the in-memory change stands.
func (d *Dispatcher) withCart(ctx context.Context, actor Actor, res Result, fn func(*ledger.Ledger) error) (Result, error) {
	lg, release, err := d.cart(ctx, actor)
	if err != nil {
		return res, err
	}
	defer release()
	err = fn(lg)
	view := lg.View()
	res.Cart = &view
	return res, err
}

func (d *Dispatcher) cart(ctx context.Context, actor Actor) (*ledger.Ledger, func(), error) {
	if actor.SessionID == "" {
		return nil, func() {}, fmt.Errorf("%w: session required", domain.ErrInvalidInput)
	}
	return d.carts.Acquire(ctx, actor.SessionID)
}

func (d *Dispatcher) track(ctx context.Context, actor Actor, name string, params map[string]any) {
	if d.tracker == nil {
		return
	}
	if err := d.tracker.Track(ctx, analytics.Event{Name: name, SessionID: actor.SessionID, Params: params}); err != nil {
		d.logger.Warn("intent: track", zap.String("event", name), zap.Error(err))
	}
}
