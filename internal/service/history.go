package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/history"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/metrics"
)

// HistoryService keeps each owner's capped history list. The store is read
// once per owner; afterwards the in-memory list is authoritative and every
// change overwrites the stored list. Store failures are logged and never
// returned.
type HistoryService struct {
	store  history.Store
	limit  int
	logger *logger.Logger

	lists map[string][]model.HistoryItem
	mu    sync.Mutex
}

// NewHistoryService creates a history service over store.
func NewHistoryService(store history.Store, log *logger.Logger) *HistoryService {
	return &HistoryService{
		store:  store,
		limit:  model.HistoryLimit,
		logger: log,
		lists:  make(map[string][]model.HistoryItem),
	}
}

// List returns summaries, newest first.
func (h *HistoryService) List(ctx context.Context, owner string) []model.HistorySummary {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := h.items(ctx, owner)
	out := make([]model.HistorySummary, 0, len(items))
	for _, item := range items {
		out = append(out, item.Summary())
	}
	return out
}

// Get returns one full item.
func (h *HistoryService) Get(ctx context.Context, owner, id string) (model.HistoryItem, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, item := range h.items(ctx, owner) {
		if item.ID == id {
			return item, nil
		}
	}
	return model.HistoryItem{}, fmt.Errorf("%w: %s", ErrHistoryItemNotFound, id)
}

// Add prepends item, evicting the oldest entries beyond the cap.
func (h *HistoryService) Add(ctx context.Context, owner string, item model.HistoryItem) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.replace(ctx, owner, model.PrependHistory(h.items(ctx, owner), item, h.limit))
}

// Delete removes one item. Unknown ids are a no-op.
func (h *HistoryService) Delete(ctx context.Context, owner, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	items, found := model.RemoveHistory(h.items(ctx, owner), id)
	if !found {
		return
	}
	h.replace(ctx, owner, items)
}

// Clear empties the owner's history.
func (h *HistoryService) Clear(ctx context.Context, owner string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.replace(ctx, owner, []model.HistoryItem{})
}

// items returns the in-memory list, reading the store on first use.
// Callers hold h.mu.
func (h *HistoryService) items(ctx context.Context, owner string) []model.HistoryItem {
	if items, ok := h.lists[owner]; ok {
		return items
	}

	items, err := h.store.Load(ctx, history.Key(owner))
	status := "ok"
	if err != nil {
		status = "error"
		level := h.logger.Error
		if errors.Is(err, history.ErrCorrupt) {
			status = "corrupt"
			level = h.logger.Warn
		}
		level("failed to load history, starting empty",
			zap.String("owner", owner),
			zap.String("backend", h.store.Name()),
			zap.Error(err),
		)
		items = nil
	}
	metrics.HistoryStoreOps.WithLabelValues(h.store.Name(), "load", status).Inc()

	if len(items) > h.limit {
		items = items[:h.limit]
	}
	h.lists[owner] = items
	return items
}

// replace installs items as the owner's list and writes it through.
// Callers hold h.mu.
func (h *HistoryService) replace(ctx context.Context, owner string, items []model.HistoryItem) {
	h.lists[owner] = items
	metrics.HistoryItems.Observe(float64(len(items)))

	status := "ok"
	if err := h.store.Save(ctx, history.Key(owner), items); err != nil {
		status = "error"
		h.logger.Error("failed to save history",
			zap.String("owner", owner),
			zap.String("backend", h.store.Name()),
			zap.Error(err),
		)
	}
	metrics.HistoryStoreOps.WithLabelValues(h.store.Name(), "save", status).Inc()
}
