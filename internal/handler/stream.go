package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/service"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/metrics"
)

// StreamHandler handles SSE streaming endpoints.
type StreamHandler struct {
	generator *service.Generator
	sessions  *service.SessionService
	logger    *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(
	gen *service.Generator,
	sessions *service.SessionService,
	log *logger.Logger,
) *StreamHandler {
	return &StreamHandler{
		generator: gen,
		sessions:  sessions,
		logger:    log,
	}
}

// ImageEvent reports one resolved image slot. Image is null when that image
// failed.
type ImageEvent struct {
	Slot  model.ImageSlot `json:"slot"`
	Index int             `json:"index"`
	Image *model.Image    `json:"image"`
}

// DoneEvent ends a successful stream.
type DoneEvent struct {
	HistoryID string             `json:"history_id"`
	Session   *model.SessionView `json:"session"`
}

// sseProgress forwards generation progress as server-sent events.
type sseProgress struct {
	w       http.ResponseWriter
	flusher http.Flusher
	logger  *logger.Logger
}

func (p *sseProgress) ThreadReady(thread model.Thread) {
	p.send("thread", thread)
}

func (p *sseProgress) ImageReady(slot model.ImageSlot, index int, img *model.Image) {
	p.send("image", &ImageEvent{Slot: slot, Index: index, Image: img})
}

func (p *sseProgress) send(event string, data interface{}) {
	if err := sendSSEEvent(p.w, p.flusher, event, data); err != nil {
		p.logger.Warn("failed to send SSE event", zap.String("event", event), zap.Error(err))
	}
}

// GenerateStream handles POST /api/v1/sessions/:id/generate/stream
// It runs a full generation and streams the thread as soon as it is parsed,
// then every image as it resolves, then a final done or error event.
func (h *StreamHandler) GenerateStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := middleware.GetOwner(ctx)

	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateConfiguration(req.Configuration); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.sessions.Get(ctx, owner, id); err != nil {
		writeServiceError(w, err, nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	log := h.logger.WithRequest(middleware.GetCorrelationID(ctx), owner).With(zap.String("session_id", id))
	progress := &sseProgress{w: w, flusher: flusher, logger: log}
	progress.send("connected", map[string]string{"session_id": id})

	view, err := h.generator.Generate(ctx, owner, id, req.Configuration, progress)
	if err != nil {
		progress.send("error", &operationError{
			Error:   service.Describe(err),
			Session: view,
		})
		return
	}

	progress.send("done", &DoneEvent{HistoryID: view.HistoryID, Session: view})
	log.Info("generation stream complete", zap.String("history_id", view.HistoryID))
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	flusher.Flush()

	return nil
}
