package chat

import (
	"github.com/futig/resource-assistant/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the HTTP chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/messages", h.ListMessages)
		r.With(middleware.RateLimit(h.limiter)).Post("/messages", h.SendMessage)
	})
}

// RegisterSocketRoutes registers the realtime channel. Long lived, so it must
// not be mounted behind a request timeout.
func RegisterSocketRoutes(r chi.Router, h *WebSocketHandler) {
	r.Get("/ws/chat", h.ServeHTTP)
}
