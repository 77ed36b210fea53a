package teller

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/backend-teller/internal/cart"
	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/obs"
	"github.com/noah-isme/backend-teller/internal/offer"
	"github.com/noah-isme/backend-teller/internal/pricing"
	"github.com/noah-isme/backend-teller/internal/receipt"
)

// PriceLookup is the catalog capability the teller needs. A missing product
// must be reported with catalog.ErrProductNotFound.
type PriceLookup interface {
	UnitPrice(p catalog.Product) (float64, error)
}

// Config groups Teller dependencies.
type Config struct {
	Catalog PriceLookup
	// Offers defaults to an empty registry.
	Offers *offer.Registry
	Logger *zerolog.Logger
}

// Teller registers offers and checks carts out against a catalog.
type Teller struct {
	catalog PriceLookup
	offers  *offer.Registry
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// New constructs a Teller.
func New(cfg Config) (*Teller, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("teller: catalog is required")
	}
	offers := cfg.Offers
	if offers == nil {
		offers = offer.NewRegistry()
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "teller").Logger()
	}
	return &Teller{
		catalog: cfg.Catalog,
		offers:  offers,
		logger:  logger,
		tracer:  otel.Tracer("teller"),
	}, nil
}

// RegisterOffer validates argument for the offer type and attaches the offer to p,
// replacing any previous one. On error the registry is left untouched.
func (t *Teller) RegisterOffer(typ offer.Type, p catalog.Product, argument float64) error {
	o, err := offer.New(typ, argument)
	if err != nil {
		obs.ObserveOfferRegistration(offerLabel(typ), "invalid")
		return err
	}
	t.offers.Register(p.ID, o)
	obs.ObserveOfferRegistration(offerLabel(typ), "ok")
	t.logger.Debug().
		Str("product", p.Name).
		Str("offer", string(typ)).
		Float64("argument", argument).
		Msg("offer registered")
	return nil
}

// RemoveOffer drops the offer attached to p, reporting whether one existed.
func (t *Teller) RemoveOffer(p catalog.Product) bool {
	if !t.offers.Remove(p.ID) {
		return false
	}
	t.logger.Debug().Str("product", p.Name).Msg("offer removed")
	return true
}

// Checkout prices every cart line at full price, then applies at most one
// discount per product that has an offer. Discounts follow the order in which
// products were first added to the cart. Any failure aborts the checkout and no
// receipt is returned.
func (t *Teller) Checkout(ctx context.Context, c *cart.Cart) (*receipt.Receipt, error) {
	if c == nil {
		c = cart.New()
	}
	_, span := t.tracer.Start(ctx, "teller.checkout", trace.WithAttributes(
		attribute.Int("cart.lines", c.Len()),
	))
	defer span.End()

	rec, err := t.checkout(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		result := "error"
		if errors.Is(err, pricing.ErrInvariantViolation) {
			result = "invariant_violation"
			t.logger.Error().Err(err).Msg("discount invariant violated")
		} else if errors.Is(err, catalog.ErrProductNotFound) {
			result = "product_not_found"
		}
		obs.ObserveCheckout(result, 0)
		return nil, err
	}

	total := rec.Total()
	span.SetAttributes(
		attribute.Int("receipt.discounts", len(rec.Discounts())),
		attribute.Float64("receipt.total", total),
	)
	obs.ObserveCheckout("ok", total)
	t.logger.Debug().
		Int("lines", c.Len()).
		Int("discounts", len(rec.Discounts())).
		Float64("total", total).
		Msg("checkout completed")
	return rec, nil
}

func (t *Teller) checkout(c *cart.Cart) (*receipt.Receipt, error) {
	offers := t.offers.Snapshot()
	rec := receipt.New()
	prices := make(map[uuid.UUID]float64)
	for _, line := range c.Lines() {
		price, err := t.unitPrice(line.Product, prices)
		if err != nil {
			return nil, err
		}
		rec.AddItem(line.Product, line.Quantity, price, line.Quantity*price)
	}

	for _, q := range c.Quantities() {
		o, ok := offers[q.Product.ID]
		if !ok {
			continue
		}
		price, err := t.unitPrice(q.Product, prices)
		if err != nil {
			return nil, err
		}
		discount, err := pricing.Apply(q.Product, q.Quantity, price, o)
		if err != nil {
			return nil, fmt.Errorf("checkout: %w", err)
		}
		if discount == nil {
			continue
		}
		rec.AddDiscount(*discount)
		obs.ObserveDiscount(string(o.Type()))
	}
	if total := rec.Total(); math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("checkout: total %v: %w", total, pricing.ErrInvariantViolation)
	}
	return rec, nil
}

func (t *Teller) unitPrice(p catalog.Product, cache map[uuid.UUID]float64) (float64, error) {
	if price, ok := cache[p.ID]; ok {
		return price, nil
	}
	price, err := t.catalog.UnitPrice(p)
	if err != nil {
		return 0, fmt.Errorf("checkout: price %s: %w", p.Name, err)
	}
	cache[p.ID] = price
	return price, nil
}

func offerLabel(typ offer.Type) string {
	if _, err := offer.ParseType(string(typ)); err != nil {
		return "unknown"
	}
	return string(typ)
}
