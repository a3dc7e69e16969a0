package recommend

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the one-shot recommendation route
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/recommend", h.Recommend)
}
