package handler

import (
	"net/http"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/service"
)

// HistoryHandler handles history endpoints.
type HistoryHandler struct {
	service *service.HistoryService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: svc}
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.service.List(r.Context(), middleware.GetOwner(r.Context()))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

// Get handles GET /api/v1/history/:itemID
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := historyID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), middleware.GetOwner(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/history/:itemID
// Deleting an unknown item succeeds.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := historyID(w, r)
	if !ok {
		return
	}

	h.service.Delete(r.Context(), middleware.GetOwner(r.Context()), id)
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/v1/history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context(), middleware.GetOwner(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
