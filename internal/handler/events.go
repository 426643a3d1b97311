package handler

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
)

// EventReader reads the operation events recorded for a session.
type EventReader interface {
	SessionEvents(ctx context.Context, owner, sessionID string, limit int) ([]model.OperationEvent, error)
}

// EventHandler handles the operation event log.
type EventHandler struct {
	reader EventReader
	logger *logger.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(reader EventReader, log *logger.Logger) *EventHandler {
	return &EventHandler{
		reader: reader,
		logger: log,
	}
}

// List handles GET /api/v1/sessions/:id/events
// Supports ?limit=N (default 50, max 200).
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	events, err := h.reader.SessionEvents(r.Context(), middleware.GetOwner(r.Context()), id, limit)
	if err != nil {
		h.logger.Error("failed to read operation events", zap.String("session_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read events")
		return
	}
	if events == nil {
		events = []model.OperationEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}
