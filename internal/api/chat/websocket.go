package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/futig/resource-assistant/internal/api/middleware"
	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/logger"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// WebSocketHandler serves the realtime chat channel
type WebSocketHandler struct {
	usecase        ChatUsecase
	validator      *validator.Validator
	hub            *Hub
	limiter        *middleware.UserLimiter
	originPatterns []string
}

func NewWebSocketHandler(
	usecase ChatUsecase,
	validator *validator.Validator,
	hub *Hub,
	limiter *middleware.UserLimiter,
	originPatterns []string,
) *WebSocketHandler {
	return &WebSocketHandler{
		usecase:        usecase,
		validator:      validator,
		hub:            hub,
		limiter:        limiter,
		originPatterns: originPatterns,
	}
}

// ServeHTTP handles GET /ws/chat
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ChatSocket")
	userID := middleware.UserIDFromContext(ctx)

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to accept websocket", zap.Error(err))
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat closed"); closeErr != nil {
			ctxzap.Debug(ctx, "failed to close websocket", zap.Error(closeErr))
		}
	}()

	h.hub.Register(userID, ws)
	defer h.hub.Unregister(ws)

	ctxzap.Info(ctx, "chat socket connected", zap.Int("connections", h.hub.Count()))

	h.readLoop(ctx, ws, userID)

	ctxzap.Info(ctx, "chat socket disconnected")
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, userID string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				ctxzap.Debug(ctx, "chat socket closed by client")
			} else {
				ctxzap.Warn(ctx, "chat socket read error", zap.Error(err))
			}
			return
		}

		var env entity.SocketEnvelope[entity.SocketSendMessage]
		if err := json.Unmarshal(data, &env); err != nil {
			h.sendError(ctx, ws, "invalid message format")
			continue
		}

		if env.Event != entity.EventSendMessage {
			h.sendError(ctx, ws, "unsupported event: "+env.Event)
			continue
		}

		if h.limiter != nil && !h.limiter.Allow(userID) {
			ctxzap.Warn(ctx, "chat rate limit exceeded")
			h.sendError(ctx, ws, middleware.TooManyRequestsMessage)
			continue
		}

		if err := h.validator.ValidateMessage(env.Data.Message); err != nil {
			h.sendError(ctx, ws, err.Error())
			continue
		}

		exchange, err := h.usecase.HandleMessage(ctx, userID, env.Data.Message)
		if err != nil {
			ctxzap.Error(ctx, "failed to handle chat message", zap.Error(err))
			h.sendError(ctx, ws, "failed to process message")
			continue
		}

		broadcastExchange(ctx, h.hub, userID, exchange)
	}
}

func (h *WebSocketHandler) sendError(ctx context.Context, ws *websocket.Conn, message string) {
	env := entity.SocketEnvelope[entity.SocketError]{
		Event: entity.EventError,
		Data:  entity.SocketError{Message: message},
	}
	if err := send(ctx, ws, env); err != nil {
		ctxzap.Debug(ctx, "failed to send socket error", zap.Error(err))
	}
}
