package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
)

// Handlers groups the API handlers mounted under /api/v1.
type Handlers struct {
	Sessions   *SessionHandler
	Operations *OperationHandler
	Stream     *StreamHandler
	History    *HistoryHandler
	// Events is nil when operation events are disabled.
	Events *EventHandler
}

// Mount registers the API routes on r.
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.Sessions.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Sessions.Get)
			r.Delete("/", h.Sessions.Delete)
			r.Put("/configuration", h.Sessions.UpdateConfiguration)

			r.Post("/generate", h.Operations.Generate)
			r.Post("/generate/stream", h.Stream.GenerateStream)
			r.Post("/refine", h.Operations.Refine)
			r.Post("/hooks/{type}/regenerate", h.Operations.RegenerateHook)
			r.Post("/body/regenerate", h.Operations.RegenerateBody)
			r.Post("/images/topic/regenerate", h.Operations.RegenerateTopicImage)
			r.Post("/images/hook/regenerate", h.Operations.RegenerateHookImage)
			r.Post("/images/body/{index}/regenerate", h.Operations.RegenerateBodyImage)
			r.Post("/history/{itemID}/load", h.Operations.LoadFromHistory)

			if h.Events != nil {
				r.Get("/events", h.Events.List)
			}
		})
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.History.List)
		r.Get("/{itemID}", h.History.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScope(middleware.ScopeHistoryWrite))
			r.Delete("/", h.History.Clear)
			r.Delete("/{itemID}", h.History.Delete)
		})
	})

	r.Post("/trending", h.Operations.Trending)
}
