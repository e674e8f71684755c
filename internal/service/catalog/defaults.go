package catalog

import "tecnostore/internal/domain"

const unsplashQuery = "?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D&auto=format&fit=crop&w=500&q=80"

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + unsplashQuery
}

// DefaultProducts is the catalog a fresh store starts with.
func DefaultProducts() []domain.Product {
	camonOriginal := int64(1450000)
	return []domain.Product{
		{
			ID:            1,
			Name:          "Tecno Camon 20 Pro",
			Category:      "camon",
			Price:         1250000,
			OriginalPrice: &camonOriginal,
			Description:   "108MP Camera | 8GB RAM | 256GB Storage",
			Image:         unsplash("photo-1512499617640-c74ae3a79d37"),
			Badge:         "best-seller",
			Stock:         15,
			Rating:        4.5,
		},
		{
			ID:          2,
			Name:        "Tecno Spark 10 Pro",
			Category:    "spark",
			Price:       650000,
			Description: `6.8" Display | 5000mAh | 8GB RAM`,
			Image:       unsplash("photo-1598327105666-5b89351aff97"),
			Badge:       "new",
			Stock:       25,
			Rating:      4.0,
		},
		{
			ID:          3,
			Name:        "Tecno Pova 5",
			Category:    "pova",
			Price:       850000,
			Description: "7000mAh Battery | Gaming Phone | 8GB RAM",
			Image:       unsplash("photo-1592899677977-9c10ca588bbd"),
			Stock:       18,
			Rating:      4.8,
		},
		{
			ID:          4,
			Name:        "Tecno Phantom X2 Pro",
			Category:    "phantom",
			Price:       2150000,
			Description: "Flagship | Retractable Camera | 12GB RAM",
			Image:       unsplash("photo-1565849904461-04a58ad377e0"),
			Badge:       "premium",
			Stock:       8,
			Rating:      4.7,
		},
	}
}
