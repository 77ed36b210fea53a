package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/offer"
	"github.com/noah-isme/backend-teller/internal/receipt"
)

// ErrInvariantViolation signals a computed discount that would raise the price.
// It points at a defect upstream (argument validation) rather than bad input,
// and is never clamped.
var ErrInvariantViolation = errors.New("pricing invariant violated")

// Apply computes the discount o grants on quantity units of p at unitPrice.
// It returns nil when the offer does not apply to the quantity bought.
//
// Bundle offers count whole units only; any fractional remainder is ignored.
func Apply(p catalog.Product, quantity, unitPrice float64, o offer.Offer) (*receipt.Discount, error) {
	var (
		amount      float64
		description string
		ok          bool
	)
	whole := math.Floor(quantity)
	switch o := o.(type) {
	case offer.ThreeForTwo:
		amount, ok = bundle(whole, 3, 2*unitPrice, unitPrice)
		description = "3 for 2"
	case offer.TwoForAmount:
		amount, ok = bundle(whole, 2, o.Price, unitPrice)
		description = "2 for " + formatAmount(o.Price)
	case offer.FiveForAmount:
		amount, ok = bundle(whole, 5, o.Price, unitPrice)
		description = "5 for " + formatAmount(o.Price)
	case offer.PercentDiscount:
		if quantity > 0 {
			amount, ok = -(quantity * unitPrice * o.Percent / 100), true
		}
		description = strconv.FormatFloat(o.Percent, 'f', -1, 64) + "% off"
	case nil:
		return nil, fmt.Errorf("%s: no offer: %w", p.Name, ErrInvariantViolation)
	default:
		return nil, fmt.Errorf("%s: unsupported offer %T: %w", p.Name, o, ErrInvariantViolation)
	}
	if !ok {
		return nil, nil
	}
	amount = settle(amount, quantity*unitPrice)
	if amount > 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%s: %s yields %v: %w", p.Name, description, amount, ErrInvariantViolation)
	}
	return &receipt.Discount{Product: p, Description: description, Amount: roundNano(amount)}, nil
}

// bundle prices quantity whole units when every size units cost bundlePrice
// and the rest cost unitPrice. It returns the (negative) difference from full price.
func bundle(quantity, size, bundlePrice, unitPrice float64) (float64, bool) {
	if quantity < size {
		return 0, false
	}
	remainder := math.Mod(quantity, size)
	bundles := (quantity - remainder) / size
	full := quantity * unitPrice
	payable := bundles*bundlePrice + remainder*unitPrice
	return -(full - payable), true
}

// settle zeroes results within float error of zero, relative to the full
// price they were derived from. Larger values are returned unchanged.
func settle(v, full float64) float64 {
	if math.Abs(v) <= 1e-12*math.Max(1, math.Abs(full)) {
		return 0
	}
	return v
}

// roundNano trims float error from amounts small enough to carry it visibly.
func roundNano(v float64) float64 {
	const scale = 1e9
	if math.Abs(v) >= 1e6 {
		return v
	}
	if r := math.Round(v*scale) / scale; r != 0 {
		return r
	}
	return 0
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
