package domain

// CartLine is one cart entry, unique by ProductID. Quantity is always >= 1
// while the line exists; a line that would reach zero is removed instead.
type CartLine struct {
	ProductID int  `json:"id"`
	Quantity  int  `json:"quantity"`
	Selected  bool `json:"selected"`
}

// Wishlist is an ordered set of product IDs.
type Wishlist []int

// Contains reports wishlist membership.
func (w Wishlist) Contains(productID int) bool {
	for _, id := range w {
		if id == productID {
			return true
		}
	}
	return false
}

// CartSummary holds the totals derived from the selected cart lines.
// Nothing here is ever persisted.
type CartSummary struct {
	ItemCount    int     `json:"item_count"`
	Subtotal     int     `json:"subtotal"`
	WeightGrams  float64 `json:"weight_grams"`
	DeliveryCost int     `json:"delivery_cost"`
	Total        int     `json:"total"`
	AllSelected  bool    `json:"all_selected"`
}
