package domain

// MaxPrice bounds a single line item, in whole currency units.
const MaxPrice int64 = 1_000_000_000_000

// ValidPrice reports whether price is a non-negative amount no larger than
// MaxPrice.
func ValidPrice(price int64) bool {
	return price >= 0 && price <= MaxPrice
}

// CartItem is one line of the cart. Buying two units of a product means two
// items sharing the same ID.
type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Currency string `json:"currency"`
}

// CartState is a read-only snapshot of a cart.
type CartState struct {
	Items []CartItem `json:"items"`
	Total int64      `json:"total"`
}
