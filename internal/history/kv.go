package history

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

// ErrTooLarge is returned when a history list exceeds the value limit even
// without images.
var ErrTooLarge = errors.New("history list exceeds the value size limit")

// KVStore keeps history lists in a NATS JetStream key-value bucket. Values
// are bounded by the server's max payload, so oversized lists lose the image
// data of their oldest items first.
type KVStore struct {
	kv       jetstream.KeyValue
	maxValue int
}

// kvOverhead is reserved for the subject and headers of a KV put.
const kvOverhead = 1024

// NewKVStore wraps an existing bucket. maxPayload is the largest message the
// server accepts; zero disables the check.
func NewKVStore(kv jetstream.KeyValue, maxPayload int64) *KVStore {
	s := &KVStore{kv: kv}
	if maxPayload > kvOverhead {
		s.maxValue = int(maxPayload) - kvOverhead
	}
	return s
}

func (s *KVStore) Name() string { return "nats" }

func (s *KVStore) Load(ctx context.Context, key string) ([]model.HistoryItem, error) {
	entry, err := s.kv.Get(ctx, kvKey(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return decode(entry.Value())
}

func (s *KVStore) Save(ctx context.Context, key string, items []model.HistoryItem) error {
	data, err := encodeWithin(items, s.maxValue)
	if err != nil {
		return err
	}
	if _, err := s.kv.Put(ctx, kvKey(key), data); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// kvKey maps an arbitrary key onto the KV key alphabet.
func kvKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// encodeWithin encodes items, dropping images from the oldest items until the
// result fits in limit bytes.
func encodeWithin(items []model.HistoryItem, limit int) ([]byte, error) {
	data, err := encode(items)
	if err != nil || limit <= 0 || len(data) <= limit {
		return data, err
	}

	trimmed := append([]model.HistoryItem(nil), items...)
	for i := len(trimmed) - 1; i >= 0; i-- {
		if trimmed[i].Images.Count() == 0 {
			continue
		}
		trimmed[i].Images = model.ThreadImages{}
		if data, err = encode(trimmed); err != nil {
			return nil, err
		}
		if len(data) <= limit {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), limit)
}
