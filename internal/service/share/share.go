package share

import (
	"fmt"
	"net/url"
	"strings"
)

// Links are the share targets offered for one product page.
type Links struct {
	Facebook string `json:"facebook"`
	Twitter  string `json:"twitter"`
	WhatsApp string `json:"whatsapp"`
	Copy     string `json:"copy"`
}

// Builder knows the public address of product pages.
type Builder struct {
	baseURL string
}

func NewBuilder(publicBaseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// ProductURL is the public page for a product id.
func (b *Builder) ProductURL(id int64) string {
	return fmt.Sprintf("%s/products/%d", b.baseURL, id)
}

// ForProduct builds share links for the named product.
func (b *Builder) ForProduct(id int64, name string) Links {
	page := b.ProductURL(id)
	text := "Check out " + name
	return Links{
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + escape(page),
		Twitter:  "https://twitter.com/intent/tweet?text=" + escape(text) + "&url=" + escape(page),
		WhatsApp: "https://wa.me/?text=" + escape(name+" "+page),
		Copy:     page,
	}
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
