// Package cart holds the client-side cart: an ordered set of
// (product, quantity) line items mutated through a fixed set of
// transitions. It does no I/O and is meant to be driven from a single
// goroutine, the way a UI drives it in response to user actions.
//
// After every transition two invariants hold: every quantity is at
// least 1, and no two line items share a product id.
package cart

import "github.com/avorobev/storefront/internal/models"

type LineItem struct {
	Product  models.Product
	Quantity uint
}

// Snapshot is the wire form of the cart submitted at checkout.
type Snapshot struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type Cart struct {
	items []LineItem
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of p into the cart: an existing line item for the
// same product gains a unit, otherwise a new line item is appended.
func (c *Cart) Add(p models.Product) {
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, LineItem{Product: p, Quantity: 1})
}

// Increase adds one unit to the line item for productID. Absent ids
// are a no-op.
func (c *Cart) Increase(productID uint) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity++
			return
		}
	}
}

// Decrease removes one unit from the line item for productID. A line
// item at quantity 1 is removed entirely so a zero quantity never
// remains in the cart.
func (c *Cart) Decrease(productID uint) {
	for i := range c.items {
		if c.items[i].Product.ID != productID {
			continue
		}
		if c.items[i].Quantity > 1 {
			c.items[i].Quantity--
		} else {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		return
	}
}

// Remove drops the line item for productID regardless of quantity.
func (c *Cart) Remove(productID uint) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Total is the client-computed checkout amount: the sum of
// price x quantity over all line items.
func (c *Cart) Total() float64 {
	var sum float64
	for _, it := range c.items {
		sum += it.Product.Price * float64(it.Quantity)
	}
	return sum
}

// Snapshots renders the cart into the order submission payload.
func (c *Cart) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, Snapshot{ProductID: it.Product.ID, Quantity: it.Quantity})
	}
	return out
}
