package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/futig/resource-assistant/internal/api/middleware"
	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/logger"
	"github.com/futig/resource-assistant/internal/pkg/response"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	validator *validator.Validator
	hub       *Hub
	limiter   *middleware.UserLimiter
}

// NewHandler builds the HTTP chat handler. Messages sent over HTTP are
// pushed to the sender's open sockets as well. limiter is shared with the
// socket handler so both count against the same per-user budget.
func NewHandler(usecase ChatUsecase, validator *validator.Validator, hub *Hub, limiter *middleware.UserLimiter) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		hub:       hub,
		limiter:   limiter,
	}
}

// ListMessages handles GET /api/chat/messages?limit=
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListChatMessages")
	userID := middleware.UserIDFromContext(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Error(ctx, w, http.StatusBadRequest, "limit must be a non-negative integer", err)
			return
		}
		limit = n
	}

	messages, err := h.usecase.History(ctx, userID, limit)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
		return
	}
	if messages == nil {
		messages = []*entity.ChatMessage{}
	}

	response.JSON(w, http.StatusOK, entity.ChatHistoryResponse{Messages: messages})
}

// SendMessage handles POST /api/chat/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SendChatMessage")
	userID := middleware.UserIDFromContext(ctx)

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateMessage(req.Message); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	exchange, err := h.usecase.HandleMessage(ctx, userID, req.Message)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
		return
	}

	if h.hub != nil {
		broadcastExchange(context.WithoutCancel(ctx), h.hub, userID, exchange)
	}

	response.JSON(w, http.StatusOK, exchange)
}

func broadcastExchange(ctx context.Context, hub *Hub, userID string, exchange *entity.ChatExchange) {
	for _, msg := range []*entity.ChatMessage{exchange.UserMessage, exchange.BotMessage} {
		delivered := hub.BroadcastTo(ctx, userID, receiveEnvelope(msg))
		ctxzap.Debug(ctx, "chat message broadcast",
			zap.Bool("is_bot", msg.IsBot),
			zap.Int("delivered", delivered),
		)
	}
}

func receiveEnvelope(msg *entity.ChatMessage) entity.SocketEnvelope[entity.SocketReceiveMessage] {
	return entity.SocketEnvelope[entity.SocketReceiveMessage]{
		Event: entity.EventReceiveMessage,
		Data: entity.SocketReceiveMessage{
			Message: msg.Content,
			IsBot:   msg.IsBot,
		},
	}
}
