package httpserver

import (
	"tecnostore/internal/domain"
	"tecnostore/internal/intent"
	"tecnostore/internal/service/catalog"
	"tecnostore/internal/service/ledger"
)

// Money renders an integer amount for display, e.g. "UGX 1,250,000".
type Money func(amount int64) string

type productView struct {
	domain.Product
	CategoryLabel        string       `json:"categoryLabel"`
	BadgeLabel           string       `json:"badgeLabel,omitempty"`
	Stars                domain.Stars `json:"stars"`
	InStock              bool         `json:"inStock"`
	PriceDisplay         string       `json:"priceDisplay"`
	OriginalPriceDisplay string       `json:"originalPriceDisplay,omitempty"`
	ShareURL             string       `json:"shareUrl,omitempty"`
}

type productListResponse struct {
	Count       int                  `json:"count"`
	Results     []productView        `json:"results"`
	PriceRanges []catalog.PriceRange `json:"priceRanges"`
}

type cartLineView struct {
	domain.CartLine
	Subtotal        int64  `json:"subtotal"`
	PriceDisplay    string `json:"priceDisplay"`
	SubtotalDisplay string `json:"subtotalDisplay"`
}

type cartView struct {
	Items             []cartLineView `json:"items"`
	TotalItems        int            `json:"totalItems"`
	TotalPrice        int64          `json:"totalPrice"`
	TotalPriceDisplay string         `json:"totalPriceDisplay"`
}

type intentResponse struct {
	intent.Result
	Cart *cartView `json:"cart,omitempty"`
}

func (s *handlers) toProductView(p domain.Product) productView {
	v := productView{
		Product:       p,
		CategoryLabel: domain.CategoryLabel(p.Category),
		Stars:         domain.StarsFor(p.Rating),
		InStock:       p.InStock(),
		PriceDisplay:  s.money(p.Price),
	}
	if p.Badge != "" {
		v.BadgeLabel = domain.BadgeLabel(p.Badge)
	}
	if p.OriginalPrice != nil {
		v.OriginalPriceDisplay = s.money(*p.OriginalPrice)
	}
	if s.share != nil {
		v.ShareURL = s.share.ProductURL(p.ID)
	}
	return v
}

func (s *handlers) toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, s.toProductView(p))
	}
	return out
}

func (s *handlers) toCartView(v ledger.View) cartView {
	out := cartView{
		Items:             make([]cartLineView, 0, len(v.Lines)),
		TotalItems:        v.TotalItems,
		TotalPrice:        v.TotalPrice,
		TotalPriceDisplay: s.money(v.TotalPrice),
	}
	for _, l := range v.Lines {
		out.Items = append(out.Items, cartLineView{
			CartLine:        l,
			Subtotal:        l.Subtotal(),
			PriceDisplay:    s.money(l.Price),
			SubtotalDisplay: s.money(l.Subtotal()),
		})
	}
	return out
}

func (s *handlers) toIntentResponse(res intent.Result) intentResponse {
	out := intentResponse{Result: res}
	if res.Cart != nil {
		cv := s.toCartView(*res.Cart)
		out.Cart = &cv
	}
	return out
}
