package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-teller/internal/cart"
	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/events"
	"github.com/noah-isme/backend-teller/internal/offer"
	"github.com/noah-isme/backend-teller/internal/receipt"
	"github.com/noah-isme/backend-teller/internal/teller"
)

// ErrNoOffer is returned when removing an offer from a product that has none.
var ErrNoOffer = errors.New("no offer registered")

// Session is one till: a catalog, a teller with its offers, and the cart
// currently being filled. Methods are safe for concurrent use; cart mutation
// and checkout are serialised.
type Session struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	teller  *teller.Teller
	printer *receipt.Printer
	events  *events.Bus
	cart    *cart.Cart
}

// SessionConfig groups Session dependencies.
type SessionConfig struct {
	Catalog *catalog.Catalog
	Teller  *teller.Teller
	Printer *receipt.Printer
	// Events, when set, journals catalog, offer and checkout activity.
	Events *events.Bus
}

// CartView is a read-only copy of the current cart.
type CartView struct {
	Lines      []cart.Line     `json:"lines"`
	Quantities []cart.Quantity `json:"quantities"`
}

// Result is the outcome of a checkout.
type Result struct {
	ID      uuid.UUID        `json:"id"`
	Receipt *receipt.Receipt `json:"receipt"`
	Text    string           `json:"text"`
}

// NewSession constructs a Session with an empty cart.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("checkout: catalog is required")
	}
	if cfg.Teller == nil {
		return nil, errors.New("checkout: teller is required")
	}
	printer := cfg.Printer
	if printer == nil {
		printer = receipt.NewPrinter(receipt.DefaultColumns)
	}
	return &Session{
		catalog: cfg.Catalog,
		teller:  cfg.Teller,
		printer: printer,
		events:  cfg.Events,
		cart:    cart.New(),
	}, nil
}

// Catalog returns the session catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// AddProduct registers a new product in the catalog.
func (s *Session) AddProduct(ctx context.Context, name string, unit catalog.Unit, price float64) (catalog.Product, error) {
	product := catalog.NewProduct(name, unit)
	if err := s.catalog.Add(product, price); err != nil {
		return catalog.Product{}, err
	}
	product, err := s.catalog.Lookup(name)
	if err != nil {
		return catalog.Product{}, err
	}
	s.emit(ctx, events.TopicProductAdded, product.ID, catalog.Entry{Product: product, Price: price})
	return product, nil
}

// AddItem adds quantity of the named product to the current cart.
func (s *Session) AddItem(name string, quantity float64) (CartView, error) {
	product, err := s.catalog.Lookup(name)
	if err != nil {
		return CartView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.Add(product, quantity); err != nil {
		return CartView{}, err
	}
	return s.viewLocked(), nil
}

// Cart returns a copy of the current cart.
func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// ResetCart discards the current cart.
func (s *Session) ResetCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.New()
}

// RegisterOffer attaches an offer to the named product.
func (s *Session) RegisterOffer(ctx context.Context, name string, typ offer.Type, argument float64) error {
	product, err := s.catalog.Lookup(name)
	if err != nil {
		return err
	}
	if err := s.teller.RegisterOffer(typ, product, argument); err != nil {
		return err
	}
	s.emit(ctx, events.TopicOfferRegistered, product.ID, map[string]any{
		"product":  product.Name,
		"type":     typ,
		"argument": argument,
	})
	return nil
}

// RemoveOffer detaches the offer from the named product. It reports
// ErrNoOffer when the product has none.
func (s *Session) RemoveOffer(ctx context.Context, name string) error {
	product, err := s.catalog.Lookup(name)
	if err != nil {
		return err
	}
	if !s.teller.RemoveOffer(product) {
		return fmt.Errorf("%s: %w", product.Name, ErrNoOffer)
	}
	s.emit(ctx, events.TopicOfferRemoved, product.ID, map[string]any{"product": product.Name})
	return nil
}

// Checkout prices the current cart and, on success, starts a fresh one.
// A failed checkout leaves the cart as it was.
func (s *Session) Checkout(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	rec, err := s.teller.Checkout(ctx, s.cart)
	if err != nil {
		s.emit(ctx, events.TopicCheckoutFailed, id, map[string]any{"error": err.Error()})
		return Result{}, err
	}
	s.cart = cart.New()
	s.emit(ctx, events.TopicCheckoutCompleted, id, rec)
	return Result{ID: id, Receipt: rec, Text: s.printer.Print(rec)}, nil
}

// emit journals an event. The operation has already succeeded, so journal
// failures are dropped.
func (s *Session) emit(ctx context.Context, topic string, aggregateID uuid.UUID, payload any) {
	if s.events == nil {
		return
	}
	_, _ = s.events.Emit(ctx, topic, aggregateID, payload)
}

func (s *Session) viewLocked() CartView {
	return CartView{Lines: s.cart.Lines(), Quantities: s.cart.Quantities()}
}
