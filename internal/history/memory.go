package history

import (
	"context"
	"sync"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

// MemoryStore keeps encoded lists in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Load(_ context.Context, key string) ([]model.HistoryItem, error) {
	s.mu.RLock()
	data := s.data[key]
	s.mu.RUnlock()
	return decode(data)
}

func (s *MemoryStore) Save(_ context.Context, key string, items []model.HistoryItem) error {
	data, err := encode(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
	return nil
}

// Raw replaces the stored bytes for key. Used to seed corrupt data.
func (s *MemoryStore) Raw(key string, data []byte) {
	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
}
