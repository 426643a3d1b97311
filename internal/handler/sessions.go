// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/service"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
)

// SessionHandler handles session endpoints.
type SessionHandler struct {
	service *service.SessionService
	logger  *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(svc *service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: svc,
		logger:  log,
	}
}

// CreateSessionRequest is the body of POST /api/v1/sessions.
type CreateSessionRequest struct {
	Configuration *model.Configuration `json:"configuration,omitempty"`
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := middleware.GetOwner(ctx)

	var req CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateConfiguration(req.Configuration); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.Create(ctx, owner, req.Configuration)
	if err != nil {
		h.logger.Debug("session rejected", zap.Error(err))
		writeServiceError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), middleware.GetOwner(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetOwner(r.Context()), id); err != nil {
		writeServiceError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateConfiguration handles PUT /api/v1/sessions/:id/configuration
func (h *SessionHandler) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var cfg model.Configuration
	if err := decodeBody(w, r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateConfiguration(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.UpdateConfiguration(r.Context(), middleware.GetOwner(r.Context()), id, cfg)
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
