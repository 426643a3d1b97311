package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/metrics"
)

// EventPublisher receives an event for every finished operation.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *model.OperationEvent) (uint64, error)
}

type discardEvents struct{}

func (discardEvents) PublishEvent(context.Context, *model.OperationEvent) (uint64, error) {
	return 0, nil
}

// DiscardEvents is an EventPublisher that drops everything.
var DiscardEvents EventPublisher = discardEvents{}

const publishTimeout = 5 * time.Second

// publish sends event without letting a publish failure affect the
// operation. It does not inherit the caller's cancellation.
func publish(ctx context.Context, p EventPublisher, log *logger.Logger, event *model.OperationEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if _, err := p.PublishEvent(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		log.Warn("failed to publish operation event",
			zap.String("session_id", event.SessionID),
			zap.String("operation", string(event.Operation)),
			zap.Error(err),
		)
		return
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
}
