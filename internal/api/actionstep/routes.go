package actionstep

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers action plan routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/action-steps", func(r chi.Router) {
		r.Get("/", h.ListActionSteps)
		r.Post("/", h.CreateActionStep)
		r.Post("/reorder", h.ReorderActionSteps)
		r.Post("/generate", h.GenerateActionSteps)
		r.Put("/{id}", h.UpdateActionStep)
	})
}
