package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/llm"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/service"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// operationError is the body of a failed operation. Session carries the state
// after the failure, including the stored message, when there is one.
type operationError struct {
	Error   string             `json:"error"`
	Session *model.SessionView `json:"session,omitempty"`
}

// writeServiceError maps err to a status and writes its user-facing message.
func writeServiceError(w http.ResponseWriter, err error, view *model.SessionView) {
	writeJSON(w, statusFor(err), &operationError{
		Error:   service.Describe(err),
		Session: view,
	})
}

func statusFor(err error) int {
	var (
		violation *contract.Violation
		up        *llm.UpstreamError
	)
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, model.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrHistoryItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrOperationInFlight), errors.Is(err, service.ErrNoThread):
		return http.StatusConflict
	case errors.Is(err, llm.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &violation), errors.As(err, &up), errors.Is(err, service.ErrTrendingFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// sessionID reads and validates the {id} URL parameter.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// historyID reads and validates the {itemID} URL parameter.
func historyID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "itemID")
	if err := middleware.ValidateHistoryID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

func validateConfiguration(cfg *model.Configuration) error {
	if cfg == nil {
		return nil
	}
	return middleware.ValidateFreeText(cfg.Topic, cfg.ToneSample, cfg.Images.CustomTopicPrompt)
}
