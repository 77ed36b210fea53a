package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-teller/internal/common"
	"github.com/noah-isme/backend-teller/internal/events"
)

// Handler exposes catalog endpoints.
type Handler struct {
	catalog *Catalog
	events  *events.Bus
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog *Catalog
	Events  *events.Bus
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{catalog: cfg.Catalog, events: cfg.Events}
}

type createProductRequest struct {
	Name  string   `json:"name" validate:"required,max=120"`
	Unit  string   `json:"unit" validate:"required,oneof=each kilo"`
	Price *float64 `json:"price" validate:"required,gte=0"`
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.catalog.List()})
}

// Create handles POST /api/v1/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	var req createProductRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	unit, err := ParseUnit(req.Unit)
	if err != nil {
		common.WriteError(w, common.BadRequest(err.Error(), err))
		return
	}
	product := NewProduct(strings.TrimSpace(req.Name), unit)
	if err := h.catalog.Add(product, *req.Price); err != nil {
		common.WriteError(w, HTTPError(err))
		return
	}
	entry := Entry{Product: product, Price: *req.Price}
	if h.events != nil {
		_, _ = h.events.Emit(r.Context(), events.TopicProductAdded, product.ID, entry)
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": entry})
}

// HTTPError maps catalog errors onto API errors.
func HTTPError(err error) error {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return common.NotFound(err.Error(), err)
	case errors.Is(err, ErrDuplicateProduct):
		return common.Conflict(err.Error(), err)
	case errors.Is(err, ErrInvalidProduct):
		return common.BadRequest(err.Error(), err)
	default:
		return err
	}
}
