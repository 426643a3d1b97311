package model

import "time"

// EventStatus is the outcome of a finished operation.
type EventStatus string

const (
	EventSucceeded EventStatus = "succeeded"
	EventFailed    EventStatus = "failed"
)

// OperationEvent records one finished orchestration operation.
type OperationEvent struct {
	ID         string      `json:"id"`
	Owner      string      `json:"owner"`
	SessionID  string      `json:"session_id"`
	Operation  Operation   `json:"operation"`
	Status     EventStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
	HistoryID  string      `json:"history_id,omitempty"`
	ImageCount int         `json:"image_count,omitempty"`
	DurationMs int64       `json:"duration_ms"`
	CreatedAt  time.Time   `json:"created_at"`
}
