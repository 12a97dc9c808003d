package domain

import "github.com/shopspring/decimal"

// Cart is one shopper's basket in insertion order, at most one entry per product id.
// Every helper returns a new slice so snapshots handed out earlier stay untouched.
type Cart []Product

func (c Cart) Find(productID int64) (Product, bool) {
	for _, p := range c {
		if p.ID == productID {
			return p, true
		}
	}
	return Product{}, false
}

func (c Cart) Contains(productID int64) bool {
	_, ok := c.Find(productID)
	return ok
}

// Append adds p at the end; callers check Contains first.
func (c Cart) Append(p Product) Cart {
	next := make(Cart, 0, len(c)+1)
	next = append(next, c...)
	return append(next, p)
}

// WithAmount replaces the amount of the matching entry. Entries with other ids are
// copied as they are, so an unknown id yields an equal cart.
func (c Cart) WithAmount(productID int64, amount int) Cart {
	next := make(Cart, len(c))
	for i, p := range c {
		if p.ID == productID {
			p.Amount = amount
		}
		next[i] = p
	}
	return next
}

func (c Cart) Without(productID int64) Cart {
	next := make(Cart, 0, len(c))
	for _, p := range c {
		if p.ID != productID {
			next = append(next, p)
		}
	}
	return next
}

func (c Cart) Clone() Cart {
	next := make(Cart, len(c))
	copy(next, c)
	return next
}

// Size is the number of distinct products, which is what the storefront header shows.
func (c Cart) Size() int {
	return len(c)
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c {
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Amount))))
	}
	return total
}
