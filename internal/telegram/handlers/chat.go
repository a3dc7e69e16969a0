package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/resource-assistant/internal/telegram/render"
)

// ChatHandler forwards free text to the action plan assistant
type ChatHandler struct {
	BaseHandler
	chatUC ChatUsecase
}

// NewChatHandler creates a new chat handler
func NewChatHandler(sender Sender, chatUC ChatUsecase) *ChatHandler {
	return &ChatHandler{
		BaseHandler: BaseHandler{messageSender: sender},
		chatUC:      chatUC,
	}
}

// Handle stores the message and replies with the assistant answer
func (h *ChatHandler) Handle(ctx context.Context, msg *Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		h.sendMessage(msg.ChatID, render.MsgTextOnly, nil)
		return nil
	}

	exchange, err := h.chatUC.HandleMessage(ctx, msg.OwnerID(), text)
	if err != nil {
		return fmt.Errorf("handle chat message: %w", err)
	}

	h.sendMessage(msg.ChatID, exchange.BotMessage.Content, nil)
	return nil
}
