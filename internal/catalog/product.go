package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Unit describes how a product is measured at the till.
type Unit string

const (
	// UnitEach products are sold in whole pieces.
	UnitEach Unit = "each"
	// UnitKilo products are sold by weight.
	UnitKilo Unit = "kilo"
)

// ParseUnit converts user input into a Unit.
func ParseUnit(value string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(value))) {
	case UnitEach:
		return UnitEach, nil
	case UnitKilo:
		return UnitKilo, nil
	default:
		return "", fmt.Errorf("unknown unit %q: %w", value, ErrInvalidProduct)
	}
}

// Product identifies something that can be sold. Two products are the same
// product only when their IDs match.
type Product struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Unit Unit      `json:"unit"`
}

// NewProduct assigns a fresh identity to a named product.
func NewProduct(name string, unit Unit) Product {
	return Product{ID: uuid.New(), Name: name, Unit: unit}
}

// SoldByWeight reports whether quantities of p are fractional kilograms.
func (p Product) SoldByWeight() bool {
	return p.Unit == UnitKilo
}
