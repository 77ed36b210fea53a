package offer

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidArgument is returned when an offer type is unknown or its argument
// falls outside the range that type accepts.
var ErrInvalidArgument = errors.New("invalid offer argument")

// Type names an offer family.
type Type string

// Supported offer types. The names match what drivers accept.
const (
	TypeThreeForTwo     Type = "THREE_FOR_TWO"
	TypeTwoForAmount    Type = "TWO_FOR_AMOUNT"
	TypeFiveForAmount   Type = "FIVE_FOR_AMOUNT"
	TypePercentDiscount Type = "TEN_PERCENT_DISCOUNT"
)

// Types lists the supported offer families in menu order.
func Types() []Type {
	return []Type{TypeThreeForTwo, TypeTwoForAmount, TypeFiveForAmount, TypePercentDiscount}
}

// ParseType resolves a type name, ignoring case and surrounding space.
func ParseType(value string) (Type, error) {
	candidate := Type(strings.ToUpper(strings.TrimSpace(value)))
	for _, t := range Types() {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown offer type %q: %w", value, ErrInvalidArgument)
}

// Offer is one of ThreeForTwo, TwoForAmount, FiveForAmount or PercentDiscount.
type Offer interface {
	Type() Type
	Argument() float64
	sealed()
}

// ThreeForTwo charges two units out of every three.
type ThreeForTwo struct{}

// TwoForAmount sells every pair for Price.
type TwoForAmount struct {
	Price float64
}

// FiveForAmount sells every five units for Price.
type FiveForAmount struct {
	Price float64
}

// PercentDiscount takes Percent off the line value.
type PercentDiscount struct {
	Percent float64
}

func (ThreeForTwo) Type() Type     { return TypeThreeForTwo }
func (TwoForAmount) Type() Type    { return TypeTwoForAmount }
func (FiveForAmount) Type() Type   { return TypeFiveForAmount }
func (PercentDiscount) Type() Type { return TypePercentDiscount }

func (ThreeForTwo) Argument() float64       { return 0 }
func (o TwoForAmount) Argument() float64    { return o.Price }
func (o FiveForAmount) Argument() float64   { return o.Price }
func (o PercentDiscount) Argument() float64 { return o.Percent }

func (ThreeForTwo) sealed()     {}
func (TwoForAmount) sealed()    {}
func (FiveForAmount) sealed()   {}
func (PercentDiscount) sealed() {}

// New validates argument for t and builds the matching offer.
//
//	THREE_FOR_TWO         argument must be 0
//	TWO_FOR_AMOUNT        argument > 0 (bundle price)
//	FIVE_FOR_AMOUNT       argument > 0 (bundle price)
//	TEN_PERCENT_DISCOUNT  0 <= argument <= 100 (percent)
func New(t Type, argument float64) (Offer, error) {
	if math.IsNaN(argument) || math.IsInf(argument, 0) {
		return nil, fmt.Errorf("%s: argument must be finite: %w", t, ErrInvalidArgument)
	}
	switch t {
	case TypeThreeForTwo:
		if argument != 0 {
			return nil, fmt.Errorf("%s takes no argument, got %v: %w", t, argument, ErrInvalidArgument)
		}
		return ThreeForTwo{}, nil
	case TypeTwoForAmount:
		if argument <= 0 {
			return nil, fmt.Errorf("%s: offer price must be positive: %w", t, ErrInvalidArgument)
		}
		return TwoForAmount{Price: argument}, nil
	case TypeFiveForAmount:
		if argument <= 0 {
			return nil, fmt.Errorf("%s: offer price must be positive: %w", t, ErrInvalidArgument)
		}
		return FiveForAmount{Price: argument}, nil
	case TypePercentDiscount:
		if argument < 0 || argument > 100 {
			return nil, fmt.Errorf("%s: percentage must be between 0 and 100: %w", t, ErrInvalidArgument)
		}
		return PercentDiscount{Percent: argument}, nil
	default:
		return nil, fmt.Errorf("unknown offer type %q: %w", t, ErrInvalidArgument)
	}
}
