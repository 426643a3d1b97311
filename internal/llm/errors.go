package llm

import (
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"
)

// UpstreamError reports a remote failure or an empty result.
type UpstreamError struct {
	Provider string
	Op       string
	// Message is the decoded, user-facing message.
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// upstream wraps err. raw is the provider's error text, decoded into the
// user-facing message; when empty err.Error() is used.
func upstream(provider, op string, err error, raw string) *UpstreamError {
	if raw == "" {
		raw = err.Error()
	}
	return &UpstreamError{Provider: provider, Op: op, Message: DecodeErrorMessage(raw), Err: err}
}

func emptyResult(provider, op, message string) *UpstreamError {
	return &UpstreamError{Provider: provider, Op: op, Message: message}
}

var embeddedPayload = regexp.MustCompile(`(?s)\{.*\}`)

// DecodeErrorMessage extracts a readable message from an upstream error text.
// It looks for an embedded JSON object and prefers its error.message field;
// otherwise the raw text is returned. Best-effort only.
func DecodeErrorMessage(raw string) string {
	if raw == "" {
		return "An unexpected error occurred."
	}
	payload := embeddedPayload.FindString(raw)
	if payload == "" || !gjson.Valid(payload) {
		return raw
	}
	if msg := gjson.Get(payload, "error.message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return raw
}
