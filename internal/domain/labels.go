package domain

import "math"

var categoryLabels = map[string]string{
	"camon":       "Camon Series",
	"spark":       "Spark Series",
	"pova":        "Pova Series",
	"phantom":     "Phantom Series",
	"accessories": "Accessories",
}

var badgeLabels = map[string]string{
	"best-seller": "Best Seller",
	"new":         "New",
	"premium":     "Premium",
	"sale":        "On Sale",
}

// CategoryLabel returns the display name for a category key. Unknown keys are
// shown as-is.
func CategoryLabel(key string) string {
	if label, ok := categoryLabels[key]; ok {
		return label
	}
	return key
}

// BadgeLabel returns the display name for a badge key, or "" for no badge.
func BadgeLabel(key string) string {
	if label, ok := badgeLabels[key]; ok {
		return label
	}
	return key
}

// Stars splits a rating into full, half and empty stars totalling MaxRating.
type Stars struct {
	Full  int `json:"full"`
	Half  int `json:"half"`
	Empty int `json:"empty"`
}

func StarsFor(rating float64) Stars {
	rating = math.Max(0, math.Min(MaxRating, rating))
	full := int(math.Floor(rating))
	half := 0
	if rating > float64(full) {
		half = 1
	}
	return Stars{Full: full, Half: half, Empty: int(MaxRating) - full - half}
}
