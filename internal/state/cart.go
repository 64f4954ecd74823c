package state

import "storefront-service/internal/models"

// Cart is the ordered list of cart items for one session. All operations
// are pure transitions: they return a new cart and never mutate the
// receiver, so the behavior is testable without any transport on top.
type Cart []models.CartItem

// Add appends a new line with quantity 1. Repeated adds of the same product
// produce repeated lines; quantities are never merged. Remove relies on
// this, so do not "fix" it here.
func (c Cart) Add(p models.Product) Cart {
	next := make(Cart, len(c), len(c)+1)
	copy(next, c)
	return append(next, models.CartItem{Product: p, Quantity: 1})
}

// Remove drops the first entry whose product id matches. Later entries with
// the same id stay.
func (c Cart) Remove(productID string) Cart {
	for i, item := range c {
		if item.ID == productID {
			next := make(Cart, 0, len(c)-1)
			next = append(next, c[:i]...)
			return append(next, c[i+1:]...)
		}
	}
	return c
}

// BuyNow discards the whole cart in favor of a single line for p. This is
// the "clean purchase" shortcut, distinct from Add.
func BuyNow(p models.Product) Cart {
	return Cart{{Product: p, Quantity: 1}}
}

// Total sums price times quantity over all lines. Recomputed on every call,
// never cached.
func (c Cart) Total() int64 {
	var total int64
	for _, item := range c {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// Clear returns the empty cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// Snapshot copies the cart into an order item list, fixing the lines and
// quantities at this moment.
func (c Cart) Snapshot() models.OrderItems {
	items := make(models.OrderItems, len(c))
	copy(items, c)
	return items
}
