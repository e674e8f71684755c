package domain

// CartLine is one entry of a cart. Name, price and image are copied from the
// product when first added and are not refreshed afterwards.
type CartLine struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Valid reports whether the line satisfies the cart invariants.
func (l CartLine) Valid() bool {
	return l.ID != 0 && l.Quantity >= 1
}

// CartTotals sums quantities and prices over lines.
func CartTotals(lines []CartLine) (items int, price int64) {
	for _, l := range lines {
		items += l.Quantity
		price += l.Subtotal()
	}
	return items, price
}
