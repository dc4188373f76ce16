// Package cart maintains the pending purchase set and its derived totals.
// The aggregate is mutated only by discrete user-triggered events; totals
// are always recomputed from the lines, never cached.
package cart

import (
	"log"
	"sync"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Line is one pending purchase entry. It is client-only state; nothing
// is persisted to the backend until checkout.
type Line struct {
	ProductID   string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string          `json:"title"`
	HeroImage   string          `json:"hero_image"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	Quantity    int             `json:"quantity"`
	MaxQuantity int             `json:"max_quantity"`
}

// TableName keeps the persisted table clearly named.
func (Line) TableName() string {
	return "cart_lines"
}

// Store persists cart lines across process restarts. No cross-device sync.
type Store interface {
	Load() ([]Line, error)
	Save(lines []Line) error
}

// Cart is the in-memory aggregate over a durable Store.
type Cart struct {
	mu    sync.Mutex
	lines []Line
	store Store
}

// New restores any persisted lines and returns the aggregate.
func New(store Store) (*Cart, error) {
	lines, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Cart{lines: lines, store: store}, nil
}

// Add merges product into the cart: an existing line gets its quantity
// increased, a new line is appended. Quantity is clamped to the product's
// recorded stock and never drops below 1.
func (c *Cart) Add(product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity = clamp(c.lines[i].Quantity+quantity, 1, c.lines[i].MaxQuantity)
			c.persist()
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID:   product.ID,
		Title:       product.Title,
		HeroImage:   product.HeroImage,
		Price:       product.Price,
		Quantity:    clamp(quantity, 1, product.Quantity),
		MaxQuantity: product.Quantity,
	})
	c.persist()
}

// Increment raises a line's quantity by one, a no-op past the stock max
// or for an unknown id.
func (c *Cart) Increment(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = clamp(c.lines[i].Quantity+1, 1, c.lines[i].MaxQuantity)
			c.persist()
			return
		}
	}
}

// Decrement lowers a line's quantity by one, flooring at 1. Decrement
// never removes a line; removal is only the explicit Remove.
func (c *Cart) Decrement(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = clamp(c.lines[i].Quantity-1, 1, c.lines[i].MaxQuantity)
			c.persist()
			return
		}
	}
}

// Remove deletes the line unconditionally; unknown ids are a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persist()
			return
		}
	}
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line{}, c.lines...)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Total returns the sum of price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

// TotalPrice returns the total formatted to exactly two decimal places.
func (c *Cart) TotalPrice() string {
	return c.Total().StringFixed(2)
}

// TotalMinorUnits returns the total in minor currency units, as payment
// gateways expect.
func (c *Cart) TotalMinorUnits() int64 {
	return c.Total().Mul(decimal.NewFromInt(100)).IntPart()
}

// Reset clears all lines. Called only after a fully successful checkout.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.persist()
}

func (c *Cart) total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// persist writes the current lines through to the store. A storage
// failure must not lose the in-memory mutation, so it is logged rather
// than unwound. Callers hold the lock.
func (c *Cart) persist() {
	if err := c.store.Save(append([]Line{}, c.lines...)); err != nil {
		log.Printf("Failed to persist cart: %v", err)
	}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
