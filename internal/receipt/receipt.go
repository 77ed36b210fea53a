package receipt

import (
	"encoding/json"

	"github.com/noah-isme/backend-teller/internal/catalog"
)

// Item is one purchased cart line at full price.
type Item struct {
	Product    catalog.Product `json:"product"`
	Quantity   float64         `json:"quantity"`
	Price      float64         `json:"price"`
	TotalPrice float64         `json:"totalPrice"`
}

// Discount is a price reduction attributed to a product. Amount is never positive.
type Discount struct {
	Product     catalog.Product `json:"product"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
}

// Receipt collects purchased items and the discounts applied to them.
// Items and discounts are appended while checking out and only read afterwards.
type Receipt struct {
	items     []Item
	discounts []Discount
}

// New returns an empty receipt.
func New() *Receipt {
	return &Receipt{}
}

// AddItem appends a purchased line.
func (r *Receipt) AddItem(p catalog.Product, quantity, price, totalPrice float64) {
	r.items = append(r.items, Item{Product: p, Quantity: quantity, Price: price, TotalPrice: totalPrice})
}

// AddDiscount appends a discount line.
func (r *Receipt) AddDiscount(d Discount) {
	r.discounts = append(r.discounts, d)
}

// Items returns the purchased lines in cart order.
func (r *Receipt) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Discounts returns the applied discounts in evaluation order.
func (r *Receipt) Discounts() []Discount {
	out := make([]Discount, len(r.discounts))
	copy(out, r.discounts)
	return out
}

// Total is the sum of item totals plus the (non-positive) discount amounts.
func (r *Receipt) Total() float64 {
	var total float64
	for _, it := range r.items {
		total += it.TotalPrice
	}
	for _, d := range r.discounts {
		total += d.Amount
	}
	return total
}

// MarshalJSON renders the receipt with its computed total.
func (r *Receipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items     []Item     `json:"items"`
		Discounts []Discount `json:"discounts"`
		Total     float64    `json:"total"`
	}{
		Items:     r.Items(),
		Discounts: r.Discounts(),
		Total:     r.Total(),
	})
}
