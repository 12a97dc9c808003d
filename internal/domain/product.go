package domain

type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
	Amount   int     `json:"amount,omitempty"` // quantity in cart, zero in the catalog
}

// Stock is the available quantity of a product as reported by the catalog API
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}
