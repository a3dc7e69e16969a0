package intake

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers guided intake routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/start", h.Start)
		r.Post("/respond", h.Respond)
		r.Get("/{sessionId}/resources", h.ExportResources)
	})
}
