package cart

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-teller/internal/catalog"
)

// ErrInvalidQuantity is returned when a quantity is not positive or exceeds MaxQuantity.
var ErrInvalidQuantity = errors.New("invalid quantity")

// MaxQuantity caps the aggregated quantity of a product in one cart.
const MaxQuantity = 1e9

// Line is a single addition to the cart. Each call to Add produces its own line.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity float64         `json:"quantity"`
}

// Quantity is the running total of a product across all of its lines.
type Quantity struct {
	Product  catalog.Product `json:"product"`
	Quantity float64         `json:"quantity"`
}

// Cart accumulates lines for a single checkout. It is not safe for concurrent use.
type Cart struct {
	lines  []Line
	totals map[uuid.UUID]int
	agg    []Quantity
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{totals: make(map[uuid.UUID]int)}
}

// AddOne adds a single unit of p.
func (c *Cart) AddOne(p catalog.Product) error {
	return c.Add(p, 1)
}

// Add appends a line for p and increments its aggregated quantity.
func (c *Cart) Add(p catalog.Product, quantity float64) error {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return fmt.Errorf("%s: %v must be positive: %w", p.Name, quantity, ErrInvalidQuantity)
	}
	if c.totals == nil {
		c.totals = make(map[uuid.UUID]int)
	}
	idx, seen := c.totals[p.ID]
	total := quantity
	if seen {
		total += c.agg[idx].Quantity
	}
	if total > MaxQuantity {
		return fmt.Errorf("%s: %v exceeds %v: %w", p.Name, total, MaxQuantity, ErrInvalidQuantity)
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: quantity})
	if seen {
		c.agg[idx].Quantity = total
		return nil
	}
	c.totals[p.ID] = len(c.agg)
	c.agg = append(c.agg, Quantity{Product: p, Quantity: quantity})
	return nil
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantities returns aggregated quantities ordered by the first time each
// product was added.
func (c *Cart) Quantities() []Quantity {
	out := make([]Quantity, len(c.agg))
	copy(out, c.agg)
	return out
}

// Len reports the number of lines.
func (c *Cart) Len() int { return len(c.lines) }
