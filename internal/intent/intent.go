package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tecnostore/internal/domain"
	"tecnostore/internal/service/catalog"
	"tecnostore/internal/service/ledger"
)

// Kind names a storefront intent.
type Kind string

const (
	KindCartAdd       Kind = "cart.add"
	KindCartRemove    Kind = "cart.remove"
	KindCartIncrease  Kind = "cart.increase"
	KindCartDecrease  Kind = "cart.decrease"
	KindCartCheckout  Kind = "cart.checkout"
	KindCatalogAdd    Kind = "catalog.add"
	KindCatalogUpdate Kind = "catalog.update"
	KindCatalogRemove Kind = "catalog.remove"
	KindCatalogQuery  Kind = "catalog.query"
	KindContact       Kind = "contact.submit"
	KindNewsletter    Kind = "newsletter.subscribe"
	KindSwipe         Kind = "gesture.swipe"
	KindPull          Kind = "gesture.pull"
	KindTrack         Kind = "analytics.track"
	KindWishlist      Kind = "wishlist.toggle"
)

// Command is a decoded intent ready for dispatch.
type Command interface {
	Kind() Kind
}

// ProductRef is a product id that may arrive as a JSON number or a numeric
// string, as happens with ids read from page attributes.
type ProductRef int64

func (r *ProductRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: product id %s", domain.ErrInvalidInput, b)
	}
	*r = ProductRef(id)
	return nil
}

// ParseProductRef converts a path or form value.
func ParseProductRef(s string) (ProductRef, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: product id %q", domain.ErrInvalidInput, s)
	}
	return ProductRef(id), nil
}

type AddToCart struct {
	ProductID ProductRef `json:"productId" binding:"required"`
}

type RemoveFromCart struct {
	ProductID ProductRef `json:"productId" binding:"required"`
}

type AdjustQuantity struct {
	ProductID ProductRef       `json:"productId" binding:"required"`
	Direction ledger.Direction `json:"direction" binding:"required,oneof=increase decrease"`
}

type Checkout struct{}

type AddProduct struct {
	Product domain.ProductFields `json:"product"`
}

type UpdateProduct struct {
	ProductID ProductRef           `json:"id" binding:"required"`
	Product   domain.ProductFields `json:"product"`
}

type RemoveProduct struct {
	ProductID ProductRef `json:"id" binding:"required"`
}

type QueryCatalog struct {
	catalog.Query
}

type SubmitContact struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Message string `json:"message" form:"message"`
}

type Subscribe struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type Swipe struct {
	StartX float64 `json:"startX"`
	EndX   float64 `json:"endX"`
}

type Pull struct {
	ScrollY float64 `json:"scrollY"`
	StartY  float64 `json:"startY"`
	EndY    float64 `json:"endY"`
}

// ToggleWishlist reports the wishlist button's new state. The list itself
// lives on the page.
type ToggleWishlist struct {
	ProductID ProductRef `json:"productId" binding:"required"`
	Active    bool       `json:"active"`
}

type Track struct {
	Name   string         `json:"name" binding:"required"`
	Params map[string]any `json:"params"`
}

func (AddToCart) Kind() Kind      { return KindCartAdd }
func (RemoveFromCart) Kind() Kind { return KindCartRemove }
func (c AdjustQuantity) Kind() Kind {
	if c.Direction == ledger.Decrease {
		return KindCartDecrease
	}
	return KindCartIncrease
}
func (Checkout) Kind() Kind       { return KindCartCheckout }
func (AddProduct) Kind() Kind     { return KindCatalogAdd }
func (UpdateProduct) Kind() Kind  { return KindCatalogUpdate }
func (RemoveProduct) Kind() Kind  { return KindCatalogRemove }
func (QueryCatalog) Kind() Kind   { return KindCatalogQuery }
func (SubmitContact) Kind() Kind  { return KindContact }
func (Subscribe) Kind() Kind      { return KindNewsletter }
func (Swipe) Kind() Kind          { return KindSwipe }
func (Pull) Kind() Kind           { return KindPull }
func (Track) Kind() Kind          { return KindTrack }
func (ToggleWishlist) Kind() Kind { return KindWishlist }

// Envelope is the wire form of an intent.
type Envelope struct {
	Type    Kind            `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

// Decode turns an envelope into its command.
func Decode(env Envelope) (Command, error) {
	var cmd Command
	switch env.Type {
	case KindCartAdd:
		cmd = &AddToCart{}
	case KindCartRemove:
		cmd = &RemoveFromCart{}
	case KindCartIncrease:
		cmd = &AdjustQuantity{Direction: ledger.Increase}
	case KindCartDecrease:
		cmd = &AdjustQuantity{Direction: ledger.Decrease}
	case KindCartCheckout:
		cmd = &Checkout{}
	case KindCatalogAdd:
		cmd = &AddProduct{}
	case KindCatalogUpdate:
		cmd = &UpdateProduct{}
	case KindCatalogRemove:
		cmd = &RemoveProduct{}
	case KindCatalogQuery:
		cmd = &QueryCatalog{}
	case KindContact:
		cmd = &SubmitContact{}
	case KindNewsletter:
		cmd = &Subscribe{}
	case KindSwipe:
		cmd = &Swipe{}
	case KindPull:
		cmd = &Pull{}
	case KindTrack:
		cmd = &Track{}
	case KindWishlist:
		cmd = &ToggleWishlist{}
	default:
		return nil, fmt.Errorf("%w: unknown intent %q", domain.ErrInvalidInput, env.Type)
	}

	if len(bytes.TrimSpace(env.Payload)) > 0 {
		if err := json.Unmarshal(env.Payload, cmd); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", domain.ErrInvalidInput, env.Type, err)
		}
	}
	if adj, ok := cmd.(*AdjustQuantity); ok {
		// The envelope type wins over any direction in the payload.
		if env.Type == KindCartDecrease {
			adj.Direction = ledger.Decrease
		} else {
			adj.Direction = ledger.Increase
		}
	}
	return cmd, nil
}
