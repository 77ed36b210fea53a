package cli

import (
	"errors"

	"github.com/noah-isme/backend-teller/internal/catalog"
)

// DemoProduct is a product the demo catalog starts with.
type DemoProduct struct {
	Name  string
	Unit  catalog.Unit
	Price float64
}

// DemoCatalog lists the products loaded by Seed.
var DemoCatalog = []DemoProduct{
	{Name: "toothbrush", Unit: catalog.UnitEach, Price: 0.99},
	{Name: "toothpaste", Unit: catalog.UnitEach, Price: 1.79},
	{Name: "apples", Unit: catalog.UnitKilo, Price: 1.99},
	{Name: "rice", Unit: catalog.UnitEach, Price: 2.49},
	{Name: "cherry tomatoes", Unit: catalog.UnitEach, Price: 0.69},
}

// Seed adds DemoCatalog to c. Products whose names already exist are skipped.
func Seed(c *catalog.Catalog) (int, error) {
	added := 0
	for _, d := range DemoCatalog {
		err := c.Add(catalog.NewProduct(d.Name, d.Unit), d.Price)
		switch {
		case err == nil:
			added++
		case errors.Is(err, catalog.ErrDuplicateProduct):
		default:
			return added, err
		}
	}
	return added, nil
}
