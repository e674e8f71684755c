package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"tecnostore/internal/domain"
)

const filterAll = "all"

// Sort criteria offered by the storefront.
const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
	SortRating    = "rating"
)

// PriceRange is an inclusive price band.
type PriceRange struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max"`
}

// PriceRanges lists the bands shown in the price filter.
var PriceRanges = []PriceRange{
	{Key: "0-500000", Label: "Under UGX 500,000", Min: 0, Max: 500000},
	{Key: "500000-1000000", Label: "UGX 500,000 - 1,000,000", Min: 500000, Max: 1000000},
	{Key: "1000000-1500000", Label: "UGX 1,000,000 - 1,500,000", Min: 1000000, Max: 1500000},
	{Key: "1500000-9999999", Label: "Over UGX 1,500,000", Min: 1500000, Max: 9999999},
}

// Query narrows and orders the catalog. Empty or "all" fields match
// everything.
type Query struct {
	Search     string `form:"q" json:"q"`
	Category   string `form:"category" json:"category"`
	PriceRange string `form:"price" json:"price"`
	Sort       string `form:"sort" json:"sort"`
}

// ParsePriceRange accepts "min-max" with inclusive bounds.
func ParsePriceRange(s string) (PriceRange, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return PriceRange{}, fmt.Errorf("%w: price range %q", domain.ErrInvalidInput, s)
	}
	minPrice, err1 := strconv.ParseInt(lo, 10, 64)
	maxPrice, err2 := strconv.ParseInt(hi, 10, 64)
	if err1 != nil || err2 != nil || minPrice < 0 || maxPrice < minPrice {
		return PriceRange{}, fmt.Errorf("%w: price range %q", domain.ErrInvalidInput, s)
	}
	return PriceRange{Key: s, Min: minPrice, Max: maxPrice}, nil
}

// Query applies q to the current catalog. Name search matches product names
// only, unlike List which also looks at category and description.
func (s *Service) Query(q Query) ([]domain.Product, error) {
	var band *PriceRange
	if r := strings.TrimSpace(q.PriceRange); r != "" && r != filterAll {
		parsed, err := ParsePriceRange(r)
		if err != nil {
			return nil, err
		}
		band = &parsed
	}
	less, err := sorter(q.Sort)
	if err != nil {
		return nil, err
	}

	category := strings.ToLower(strings.TrimSpace(q.Category))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	var out []domain.Product
	for p := range s.List("") {
		if category != "" && category != filterAll && p.Category != category {
			continue
		}
		if band != nil && (p.Price < band.Min || p.Price > band.Max) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	if less != nil {
		slices.SortStableFunc(out, less)
	}
	return out, nil
}

func sorter(criteria string) (func(a, b domain.Product) int, error) {
	switch strings.TrimSpace(criteria) {
	case "", SortDefault:
		return nil, nil
	case SortPriceLow:
		return func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) }, nil
	case SortPriceHigh:
		return func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) }, nil
	case SortName:
		return func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}, nil
	case SortRating:
		return func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }, nil
	default:
		return nil, fmt.Errorf("%w: sort %q", domain.ErrInvalidInput, criteria)
	}
}
