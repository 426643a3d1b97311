package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/service"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
)

// OperationHandler handles the generation operations of a session.
type OperationHandler struct {
	generator *service.Generator
	logger    *logger.Logger
}

// NewOperationHandler creates a new operation handler.
func NewOperationHandler(gen *service.Generator, log *logger.Logger) *OperationHandler {
	return &OperationHandler{
		generator: gen,
		logger:    log,
	}
}

// GenerateRequest is the body of the generate endpoints. Without a
// configuration the session's current one is used.
type GenerateRequest struct {
	Configuration *model.Configuration `json:"configuration,omitempty"`
}

// RefineRequest is the body of the refine endpoint.
type RefineRequest struct {
	Instruction string `json:"instruction"`
}

// RegenerateBodyRequest selects the hook and CTA the new body bridges.
type RegenerateBodyRequest struct {
	HookType model.HookType `json:"hook_type,omitempty"`
	CTAType  model.CTAType  `json:"cta_type,omitempty"`
}

// RegenerateImageRequest is the body of the image regeneration endpoints.
// HookType is only read by the hook image endpoint.
type RegenerateImageRequest struct {
	Style    model.ImageStyle `json:"style"`
	HookType model.HookType   `json:"hook_type,omitempty"`
}

// TrendingRequest is the body of the trending topics endpoint.
type TrendingRequest struct {
	Niche      model.Niche `json:"niche"`
	OtherNiche string      `json:"other_niche,omitempty"`
}

type sessionOp func(ctx context.Context, owner, id string) (*model.SessionView, error)

// respond runs op against the session in the URL and writes the result.
func (h *OperationHandler) respond(w http.ResponseWriter, r *http.Request, op sessionOp) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := op(r.Context(), middleware.GetOwner(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, view)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Generate handles POST /api/v1/sessions/:id/generate
func (h *OperationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateConfiguration(req.Configuration); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respond(w, r, func(ctx context.Context, owner, id string) (*model.SessionView, error) {
		return h.generator.Generate(ctx, owner, id, req.Configuration, nil)
	})
}

// Refine handles POST /api/v1/sessions/:id/refine
func (h *OperationHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var req RefineRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateInstruction(req.Instruction); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respond(w, r, func(ctx context.Context, owner, id string) (*model.SessionView, error) {
		return h.generator.Refine(ctx, owner, id, req.Instruction)
	})
}

// RegenerateHook handles POST /api/v1/sessions/:id/hooks/:type/regenerate
func (h *OperationHandler) RegenerateHook(w http.ResponseWriter, r *http.Request) {
	hookType := model.HookType(chi.URLParam(r, "type"))

	h.respond(w, r, func(ctx context.Context, owner, id string) (*model.SessionView, error) {
		return h.generator.RegenerateHook(ctx, owner, id, hookType)
	})
}

// RegenerateBody handles POST /api/v1/sessions/:id/body/regenerate
func (h *OperationHandler) RegenerateBody(w http.ResponseWriter, r *http.Request) {
	var req RegenerateBodyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respond(w, r, func(ctx context.Context, owner, id string) (*model.SessionView, error) {
		return h.generator.RegenerateBody(ctx, owner, id, req.HookType, req.CTAType)
	})
}

// RegenerateTopicImage handles POST /api/v1/sessions/:id/images/topic/regenerate
func (h *OperationHandler) RegenerateTopicImage(w http.ResponseWriter, r *http.Request) {
	var req RegenerateImageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respond(w, r, func(ctx context.Context, owner, id string) (*model.SessionView, error) {
		return h.generator.RegenerateTopicImage(ctx, owner, id, req.Style)
	})
}

// RegenerateHookImage handles POST /api/v1/sessions/:id/images/hook/regenerate
func (h *OperationHandler) RegenerateHookImage(w http.ResponseWriter, r *http.Request) {
	var req RegenerateImageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respond(w, r, func(ctx context.Context, owner, id string) (*model.SessionView, error) {
		return h.generator.RegenerateHookImage(ctx, owner, id, req.HookType, req.Style)
	})
}

// RegenerateBodyImage handles POST /api/v1/sessions/:id/images/body/:index/regenerate
func (h *OperationHandler) RegenerateBodyImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body post index")
		return
	}

	var req RegenerateImageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respond(w, r, func(ctx context.Context, owner, id string) (*model.SessionView, error) {
		return h.generator.RegenerateBodyImage(ctx, owner, id, index, req.Style)
	})
}

// LoadFromHistory handles POST /api/v1/sessions/:id/history/:itemID/load
func (h *OperationHandler) LoadFromHistory(w http.ResponseWriter, r *http.Request) {
	itemID, ok := historyID(w, r)
	if !ok {
		return
	}

	h.respond(w, r, func(ctx context.Context, owner, id string) (*model.SessionView, error) {
		return h.generator.LoadFromHistory(ctx, owner, id, itemID)
	})
}

// Trending handles POST /api/v1/trending
func (h *OperationHandler) Trending(w http.ResponseWriter, r *http.Request) {
	var req TrendingRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	topics, err := h.generator.TrendingTopics(r.Context(), middleware.GetOwner(r.Context()), req.Niche, req.OtherNiche)
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, topics)
}
