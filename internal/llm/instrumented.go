package llm

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/metrics"
)

// Instrumented wraps a Gateway with metrics, tracing and debug logging.
type Instrumented struct {
	next   Gateway
	tracer trace.Tracer
	logger *logger.Logger
}

// Instrument wraps g.
func Instrument(g Gateway, log *logger.Logger) *Instrumented {
	if log == nil {
		log = logger.Global()
	}
	return &Instrumented{
		next:   g,
		tracer: otel.Tracer("github.com/emtechbytes-cpu/ThreadSmith/internal/llm"),
		logger: log,
	}
}

// Name returns the wrapped provider name.
func (g *Instrumented) Name() string {
	return g.next.Name()
}

func (g *Instrumented) GenerateText(ctx context.Context, prompt string, schema *contract.Schema) (string, error) {
	ctx, done := g.start(ctx, CapabilityText, len(prompt))
	text, err := g.next.GenerateText(ctx, prompt, schema)
	done(err)
	return text, err
}

func (g *Instrumented) GenerateImage(ctx context.Context, prompt string) (*model.Image, error) {
	ctx, done := g.start(ctx, CapabilityImage, len(prompt))
	img, err := g.next.GenerateImage(ctx, prompt)
	done(err)
	return img, err
}

func (g *Instrumented) SearchGrounded(ctx context.Context, prompt string) (*Grounded, error) {
	ctx, done := g.start(ctx, CapabilitySearch, len(prompt))
	res, err := g.next.SearchGrounded(ctx, prompt)
	done(err)
	return res, err
}

func (g *Instrumented) start(ctx context.Context, capability string, promptLen int) (context.Context, func(error)) {
	start := time.Now()
	provider := g.next.Name()
	ctx, span := g.tracer.Start(ctx, "gateway."+capability, trace.WithAttributes(
		attribute.String("gateway.provider", provider),
		attribute.Int("gateway.prompt_length", promptLen),
	))

	return ctx, func(err error) {
		duration := time.Since(start)
		status := callStatus(err)
		metrics.RecordGatewayCall(provider, capability, status, duration.Seconds())

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, status)
		}
		span.End()

		g.logger.Debug("gateway call finished",
			zap.String("provider", provider),
			zap.String("capability", capability),
			zap.String("status", status),
			zap.Duration("duration", duration),
		)
	}
}

func callStatus(err error) string {
	var up *UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrGatewayUnavailable):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &up):
		return "upstream_error"
	default:
		return "error"
	}
}
