package model

import "time"

// HistoryLimit is the number of items kept in an owner's history.
const HistoryLimit = 50

// HistoryItem is an immutable snapshot of a successful full generation.
type HistoryItem struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	Configuration Configuration `json:"configuration"`
	Thread        Thread        `json:"thread"`
	Images        ThreadImages  `json:"images"`
}

// HistorySummary is the listing form of a history item, without image payloads.
type HistorySummary struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Timestamp  time.Time `json:"timestamp"`
	ImageCount int       `json:"image_count"`
}

// Summary returns the listing form of the item.
func (h HistoryItem) Summary() HistorySummary {
	return HistorySummary{
		ID:         h.ID,
		Topic:      h.Configuration.Topic,
		Timestamp:  h.Timestamp,
		ImageCount: h.Images.Count(),
	}
}

// PrependHistory returns items with item placed first, truncated to limit.
// The input slice is not modified.
func PrependHistory(items []HistoryItem, item HistoryItem, limit int) []HistoryItem {
	out := make([]HistoryItem, 0, len(items)+1)
	out = append(out, item)
	out = append(out, items...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RemoveHistory returns items without the entry whose ID is id, and whether
// such an entry existed.
func RemoveHistory(items []HistoryItem, id string) ([]HistoryItem, bool) {
	out := make([]HistoryItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	return out, found
}
