package service

import (
	"context"
	"errors"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/llm"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

var (
	// ErrSessionNotFound is returned for unknown sessions or sessions owned by
	// someone else.
	ErrSessionNotFound = errors.New("session not found")
	// ErrHistoryItemNotFound is returned for unknown history ids.
	ErrHistoryItemNotFound = errors.New("history item not found")
	// ErrOperationInFlight is returned when the same operation is already
	// running on the session.
	ErrOperationInFlight = errors.New("operation already in progress")
	// ErrNoThread is returned by operations that need a generated thread.
	ErrNoThread = errors.New("no thread has been generated yet")
	// ErrInvalidInput is returned for malformed operation arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTrendingFailed wraps upstream failures of the trending-topics query.
	ErrTrendingFailed = errors.New("could not fetch trending topics")
)

const trendingMessage = "Could not fetch trending topics. The API may be unavailable or the request was blocked."

// Describe returns the user-facing message for err.
func Describe(err error) string {
	var (
		violation *contract.Violation
		up        *llm.UpstreamError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, llm.ErrGatewayUnavailable):
		return llm.UnavailableMessage
	case errors.Is(err, ErrTrendingFailed):
		return trendingMessage
	case errors.As(err, &violation):
		return violation.UserMessage()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was canceled before it finished."
	case errors.As(err, &up):
		return up.Message
	case errors.Is(err, ErrNoThread):
		return "Generate a thread first."
	case errors.Is(err, ErrOperationInFlight):
		return "This operation is already in progress."
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrHistoryItemNotFound),
		errors.Is(err, ErrInvalidInput), errors.Is(err, model.ErrInvalidConfiguration):
		return err.Error()
	default:
		return llm.DecodeErrorMessage(err.Error())
	}
}
