package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrProductNotFound is returned when a product has no price in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct is returned when a product name is already taken.
	ErrDuplicateProduct = errors.New("product already exists")
	// ErrInvalidProduct is returned for malformed products or prices.
	ErrInvalidProduct = errors.New("invalid product")
)

// MaxPrice caps unit prices.
const MaxPrice = 1e9

// Entry pairs a product with its unit price.
type Entry struct {
	Product Product `json:"product"`
	Price   float64 `json:"price"`
}

// Catalog is an in-memory price list. Product names are unique so that
// drivers can resolve products typed by a person.
type Catalog struct {
	mu     sync.RWMutex
	prices map[uuid.UUID]Entry
	byName map[string]uuid.UUID
	order  []uuid.UUID
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		prices: make(map[uuid.UUID]Entry),
		byName: make(map[string]uuid.UUID),
	}
}

// Add registers p at the given unit price.
func (c *Catalog) Add(p Product, price float64) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidProduct)
	}
	if p.ID == uuid.Nil {
		return fmt.Errorf("product id is required: %w", ErrInvalidProduct)
	}
	if p.Unit != UnitEach && p.Unit != UnitKilo {
		return fmt.Errorf("unknown unit %q: %w", p.Unit, ErrInvalidProduct)
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("price must be a non-negative number: %w", ErrInvalidProduct)
	}
	if price > MaxPrice {
		return fmt.Errorf("price %v exceeds %v: %w", price, MaxPrice, ErrInvalidProduct)
	}
	p.Name = name

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byName[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrDuplicateProduct)
	}
	if _, ok := c.prices[p.ID]; ok {
		return fmt.Errorf("%s: %w", p.ID, ErrDuplicateProduct)
	}
	c.prices[p.ID] = Entry{Product: p, Price: price}
	c.byName[name] = p.ID
	c.order = append(c.order, p.ID)
	return nil
}

// UnitPrice returns the price of one unit of p.
func (c *Catalog) UnitPrice(p Product) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.prices[p.ID]
	if !ok {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrProductNotFound)
	}
	return entry.Price, nil
}

// Lookup resolves a product by name.
func (c *Catalog) Lookup(name string) (Product, error) {
	name = strings.TrimSpace(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[name]
	if !ok {
		return Product{}, fmt.Errorf("%s: %w", name, ErrProductNotFound)
	}
	return c.prices[id].Product, nil
}

// List returns every entry in registration order.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.prices[id])
	}
	return out
}

// Len reports the number of products.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
