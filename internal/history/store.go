// Package history persists each owner's generation history as a single
// serialized list, overwritten wholesale on every change.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

// KeyPrefix prefixes every owner key.
const KeyPrefix = "threadsmith_history"

// ErrCorrupt is returned by Load when the stored value cannot be decoded.
// Callers treat it as an empty history.
var ErrCorrupt = errors.New("stored history is corrupt")

// Store is a small key-value store holding one history list per key.
type Store interface {
	// Load returns the list stored under key, or nil when nothing is stored.
	Load(ctx context.Context, key string) ([]model.HistoryItem, error)
	// Save replaces the list stored under key.
	Save(ctx context.Context, key string, items []model.HistoryItem) error
	// Name identifies the backend in logs and metrics.
	Name() string
}

// Pinger is implemented by stores backed by a remote server.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Key returns the store key for owner.
func Key(owner string) string {
	return KeyPrefix + ":" + owner
}

func encode(items []model.HistoryItem) ([]byte, error) {
	if items == nil {
		items = []model.HistoryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]model.HistoryItem, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []model.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return items, nil
}
