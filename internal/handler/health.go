package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/history"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/llm"
	natsclient "github.com/emtechbytes-cpu/ThreadSmith/internal/nats"
)

const pingTimeout = 2 * time.Second

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	gateway    llm.Gateway
	natsClient *natsclient.Client
	store      history.Pinger
}

// NewHealthHandler creates a new health handler. natsClient is nil when NATS
// is not used. The store is pinged only when it talks to a server.
func NewHealthHandler(gateway llm.Gateway, natsClient *natsclient.Client, store history.Store) *HealthHandler {
	h := &HealthHandler{
		gateway:    gateway,
		natsClient: natsClient,
	}
	if p, ok := store.(history.Pinger); ok {
		h.store = p
	}
	return h
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
// A gateway without credentials is reported as degraded, not as unready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": "history store unreachable",
			})
			return
		}
	}

	status := map[string]string{
		"status":  "ready",
		"gateway": h.gateway.Name(),
	}
	if !llm.Available(h.gateway) {
		status["status"] = "degraded"
		status["reason"] = llm.UnavailableMessage
	}
	writeJSON(w, http.StatusOK, status)
}
