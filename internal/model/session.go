package model

import "time"

// Operation names an orchestration operation. Each has its own in-flight flag.
type Operation string

const (
	OpGenerate          Operation = "generate"
	OpRefine            Operation = "refine"
	OpRegenerateTopic   Operation = "regenerate_topic_image"
	OpRegenerateHookImg Operation = "regenerate_hook_image"
	OpRegenerateBodyImg Operation = "regenerate_body_image"
	OpRegenerateHook    Operation = "regenerate_hook"
	OpRegenerateBody    Operation = "regenerate_body"
	OpTrendingTopics    Operation = "trending_topics"
)

// SessionView is the externally visible state of a session.
type SessionView struct {
	ID            string        `json:"id"`
	Configuration Configuration `json:"configuration"`
	Thread        *Thread       `json:"thread,omitempty"`
	Images        ThreadImages  `json:"images"`
	InFlight      []Operation   `json:"in_flight"`
	BodyImageSlot *int          `json:"body_image_in_flight,omitempty"`
	Error         string        `json:"error,omitempty"`
	HistoryID     string        `json:"history_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Source is a web page cited by a grounded search.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// TrendingTopics is the result of a trending-topics query.
type TrendingTopics struct {
	Topics  []string `json:"topics"`
	Sources []Source `json:"sources"`
}
