package domain

import (
	"fmt"
	"math"
	"strings"
)

// MaxRating is the top of the star scale.
const MaxRating = 5.0

// Product is a sellable catalog item. ID is assigned by the catalog and never
// changes afterwards.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         int64   `json:"price"`
	OriginalPrice *int64  `json:"originalPrice"`
	Description   string  `json:"description"`
	Image         string  `json:"image"`
	Badge         string  `json:"badge"`
	Stock         int     `json:"stock"`
	Rating        float64 `json:"rating"`
}

// ProductFields carries everything but the id, as submitted by the admin form.
type ProductFields struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         int64   `json:"price"`
	OriginalPrice *int64  `json:"originalPrice"`
	Description   string  `json:"description"`
	Image         string  `json:"image"`
	Badge         string  `json:"badge"`
	Stock         int     `json:"stock"`
	Rating        float64 `json:"rating"`
}

// NewProduct validates fields and builds a Product with the given id.
func NewProduct(id int64, f ProductFields) (Product, error) {
	if id <= 0 {
		return Product{}, invalid("id must be positive")
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Badge = strings.ToLower(strings.TrimSpace(f.Badge))
	f.Image = strings.TrimSpace(f.Image)

	switch {
	case f.Name == "":
		return Product{}, invalid("name required")
	case f.Category == "":
		return Product{}, invalid("category required")
	case f.Price < 0:
		return Product{}, invalid("price must not be negative")
	case f.OriginalPrice != nil && *f.OriginalPrice < 0:
		return Product{}, invalid("originalPrice must not be negative")
	case f.Stock < 0:
		return Product{}, invalid("stock must not be negative")
	case math.IsNaN(f.Rating) || f.Rating < 0 || f.Rating > MaxRating:
		return Product{}, invalid("rating must be between 0 and 5")
	}

	var original *int64
	if f.OriginalPrice != nil {
		v := *f.OriginalPrice
		original = &v
	}
	return Product{
		ID:            id,
		Name:          f.Name,
		Category:      f.Category,
		Price:         f.Price,
		OriginalPrice: original,
		Description:   f.Description,
		Image:         f.Image,
		Badge:         f.Badge,
		Stock:         f.Stock,
		Rating:        f.Rating,
	}, nil
}

// Fields returns the mutable part of p.
func (p Product) Fields() ProductFields {
	return ProductFields{
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Description:   p.Description,
		Image:         p.Image,
		Badge:         p.Badge,
		Stock:         p.Stock,
		Rating:        p.Rating,
	}
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Snapshot captures what a cart line needs at add time.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
}

// ProductSnapshot is the subset of a product copied into a cart line.
type ProductSnapshot struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Image string `json:"image"`
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
