package api

import (
	"net/http"

	actionstepapi "github.com/futig/resource-assistant/internal/api/actionstep"
	chatapi "github.com/futig/resource-assistant/internal/api/chat"
	"github.com/futig/resource-assistant/internal/api/docs"
	intakeapi "github.com/futig/resource-assistant/internal/api/intake"
	"github.com/futig/resource-assistant/internal/api/middleware"
	recommendapi "github.com/futig/resource-assistant/internal/api/recommend"
	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups every HTTP surface mounted by SetupRouter
type Handlers struct {
	Intake      *intakeapi.Handler
	ActionSteps *actionstepapi.Handler
	Chat        *chatapi.Handler
	ChatSocket  *chatapi.WebSocketHandler
	Recommend   *recommendapi.Handler
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                // Recover from panics
	r.Use(chimiddleware.RequestID)                // Add request ID
	r.Use(middleware.Logger(logger))              // Log requests
	r.Use(middleware.CORS(cfg.AllowedOrigins))    // Handle CORS
	r.Use(middleware.Identity(cfg.DefaultUserID)) // Resolve the caller

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Realtime chat stays open for the lifetime of the socket
	chatapi.RegisterSocketRoutes(r, h.ChatSocket)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

		intakeapi.RegisterRoutes(r, h.Intake)
		actionstepapi.RegisterRoutes(r, h.ActionSteps)
		chatapi.RegisterRoutes(r, h.Chat)
		recommendapi.RegisterRoutes(r, h.Recommend)
	})

	return r
}
