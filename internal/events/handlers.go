package events

import (
	"net/http"
	"strconv"

	"github.com/noah-isme/backend-teller/internal/common"
)

// Handler exposes the session journal.
type Handler struct {
	Store *MemoryStore
}

// List handles GET /api/v1/events?limit=N.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "event journal not configured", nil)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Store.Recent(limit)})
}
