package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

const (
	// StreamName is the name of the operation events stream.
	StreamName = "THREADSMITH"

	// SubjectPrefix is the prefix for all operation event subjects.
	SubjectPrefix = "threadsmith"

	// HistoryBucket is the default KV bucket for history lists.
	HistoryBucket = "threadsmith_history"
)

// StreamManager handles JetStream stream and bucket operations.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream ensures the events stream exists with proper configuration.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		MaxBytes:    1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Finished generation operations",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// MaxPayload returns the largest message the connected server accepts.
func (m *StreamManager) MaxPayload() int64 {
	return m.client.MaxPayload()
}

// EnsureHistoryBucket returns the KV bucket, creating it when missing.
func (m *StreamManager) EnsureHistoryBucket(ctx context.Context, bucket string) (jetstream.KeyValue, error) {
	if bucket == "" {
		bucket = HistoryBucket
	}
	js := m.client.JetStream()

	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, fmt.Errorf("failed to look up bucket: %w", err)
	}

	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Generation history, one list per owner",
		History:     1,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return kv, nil
}

// subjectToken makes s safe for use as a single subject token.
func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}

// EventSubject returns the subject for an operation event.
func EventSubject(owner, sessionID string, op model.Operation) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, subjectToken(owner), subjectToken(sessionID), op)
}

// SessionFilter returns the filter subject for all events of a session.
func SessionFilter(owner, sessionID string) string {
	return fmt.Sprintf("%s.%s.%s.>", SubjectPrefix, subjectToken(owner), subjectToken(sessionID))
}

// PublishEvent publishes an operation event to JetStream.
func (m *StreamManager) PublishEvent(ctx context.Context, event *model.OperationEvent) (uint64, error) {
	subject := EventSubject(event.Owner, event.SessionID, event.Operation)

	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, subject, data, jetstream.WithMsgID(event.ID))
	if err != nil {
		return 0, fmt.Errorf("failed to publish event: %w", err)
	}

	return ack.Sequence, nil
}

// SessionEvents returns up to limit events recorded for a session, oldest
// first.
func (m *StreamManager) SessionEvents(ctx context.Context, owner, sessionID string, limit int) ([]model.OperationEvent, error) {
	js := m.client.JetStream()

	consumer, err := js.OrderedConsumer(ctx, StreamName, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{SessionFilter(owner, sessionID)},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.FetchNoWait(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	var events []model.OperationEvent
	for msg := range batch.Messages() {
		var event model.OperationEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			continue
		}
		events = append(events, event)
	}

	if err := batch.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("batch error: %w", err)
	}

	return events, nil
}
