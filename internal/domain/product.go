package domain

// WeightDetail is the details key that holds a product's weight in grams.
const WeightDetail = "Weight"

// Product is a read-only catalog record supplied by the data file.
// Price is in whole currency units, no minor units.
type Product struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Price       int               `json:"price"`
	ImageURL    string            `json:"imageUrl"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Details     map[string]string `json:"details"`
}
