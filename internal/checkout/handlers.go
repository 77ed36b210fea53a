package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-teller/internal/cart"
	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/common"
	"github.com/noah-isme/backend-teller/internal/offer"
	"github.com/noah-isme/backend-teller/internal/pricing"
)

// Handler exposes the cart, offer and checkout endpoints of a Session.
type Handler struct {
	Session *Session
}

type addItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity"`
}

type offerRequest struct {
	Name     string  `json:"name" validate:"required"`
	Type     string  `json:"type" validate:"required"`
	Argument float64 `json:"argument"`
}

// AddItem handles POST /api/v1/cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout session not configured", nil)
		return
	}
	var req addItemRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	view, err := h.Session.AddItem(req.Name, req.Quantity)
	if err != nil {
		common.WriteError(w, HTTPError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": view})
}

// Cart handles GET /api/v1/cart.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout session not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Session.Cart()})
}

// ResetCart handles DELETE /api/v1/cart.
func (h *Handler) ResetCart(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout session not configured", nil)
		return
	}
	h.Session.ResetCart()
	w.WriteHeader(http.StatusNoContent)
}

// RegisterOffer handles POST /api/v1/offers.
func (h *Handler) RegisterOffer(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout session not configured", nil)
		return
	}
	var req offerRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	typ, err := offer.ParseType(req.Type)
	if err != nil {
		common.WriteError(w, HTTPError(err))
		return
	}
	if err := h.Session.RegisterOffer(r.Context(), req.Name, typ, req.Argument); err != nil {
		common.WriteError(w, HTTPError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"name":     req.Name,
		"type":     typ,
		"argument": req.Argument,
	}})
}

// RemoveOffer handles DELETE /api/v1/offers/{name}.
func (h *Handler) RemoveOffer(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout session not configured", nil)
		return
	}
	if err := h.Session.RemoveOffer(r.Context(), chi.URLParam(r, "name")); err != nil {
		common.WriteError(w, HTTPError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/v1/checkout.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Session == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout session not configured", nil)
		return
	}
	result, err := h.Session.Checkout(r.Context())
	if err != nil {
		common.WriteError(w, HTTPError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// HTTPError maps domain errors onto API errors.
func HTTPError(err error) error {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return common.BadRequest(err.Error(), err)
	case errors.Is(err, offer.ErrInvalidArgument):
		return common.BadRequest(err.Error(), err)
	case errors.Is(err, ErrNoOffer):
		return common.NotFound(err.Error(), err)
	case errors.Is(err, pricing.ErrInvariantViolation):
		return common.NewAppError("INVARIANT_VIOLATION", "discount calculation failed", http.StatusInternalServerError, err)
	default:
		return catalog.HTTPError(err)
	}
}
