package offer

import (
	"maps"
	"sync"

	"github.com/google/uuid"
)

// Registry holds at most one offer per product for the lifetime of a session.
type Registry struct {
	mu     sync.RWMutex
	offers map[uuid.UUID]Offer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{offers: make(map[uuid.UUID]Offer)}
}

// Register stores o for the product, replacing any previous offer.
func (r *Registry) Register(productID uuid.UUID, o Offer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.offers == nil {
		r.offers = make(map[uuid.UUID]Offer)
	}
	r.offers[productID] = o
}

// Remove drops the product's offer, reporting whether one existed.
func (r *Registry) Remove(productID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[productID]; !ok {
		return false
	}
	delete(r.offers, productID)
	return true
}

// Snapshot copies the current offers. Later registrations do not affect it.
func (r *Registry) Snapshot() map[uuid.UUID]Offer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.offers)
}

// Len reports the number of registered offers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.offers)
}
