package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/llm"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/prompt"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/metrics"
)

var listMarker = regexp.MustCompile(`^\d+\.\s*`)

// TrendingTopics asks the search-grounded generator for trending topics in a
// niche. otherNiche is used when niche is Other and must then be non-empty.
func (g *Generator) TrendingTopics(ctx context.Context, owner string, niche model.Niche, otherNiche string) (*model.TrendingTopics, error) {
	name := string(niche)
	if niche == model.NicheOther {
		name = strings.TrimSpace(otherNiche)
		if name == "" {
			return nil, fmt.Errorf("%w: a custom niche is required", ErrInvalidInput)
		}
	} else if !validNiche(niche) {
		return nil, fmt.Errorf("%w: unknown niche %q", ErrInvalidInput, niche)
	}

	start := time.Now()
	log := g.logger.With(
		zap.String("operation", string(model.OpTrendingTopics)),
		zap.String("niche", name),
	)

	result, err := g.trending(ctx, name)
	duration := time.Since(start)

	event := &model.OperationEvent{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Owner:      owner,
		Operation:  model.OpTrendingTopics,
		Status:     model.EventSucceeded,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err != nil {
		event.Status = model.EventFailed
		event.Error = Describe(err)
		metrics.RecordOperation(string(model.OpTrendingTopics), "failed", duration.Seconds())
		log.Warn("trending topics failed", zap.Error(err))
	} else {
		metrics.RecordOperation(string(model.OpTrendingTopics), "ok", duration.Seconds())
		log.Info("trending topics fetched",
			zap.Int("topics", len(result.Topics)),
			zap.Int("sources", len(result.Sources)),
		)
	}
	publish(ctx, g.events, g.logger, event)

	return result, err
}

func (g *Generator) trending(ctx context.Context, niche string) (*model.TrendingTopics, error) {
	grounded, err := g.gateway.SearchGrounded(ctx, prompt.TrendingTopics(niche))
	if err != nil {
		if errors.Is(err, llm.ErrGatewayUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrTrendingFailed, err)
	}

	sources := grounded.Sources
	if sources == nil {
		sources = []model.Source{}
	}
	return &model.TrendingTopics{
		Topics:  ParseTopics(grounded.Text),
		Sources: sources,
	}, nil
}

// ParseTopics splits a numbered list into topics, dropping the numbering and
// blank lines.
func ParseTopics(text string) []string {
	topics := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			topics = append(topics, line)
		}
	}
	return topics
}

func validNiche(n model.Niche) bool {
	for _, candidate := range model.AllNiches {
		if candidate == n {
			return true
		}
	}
	return false
}
