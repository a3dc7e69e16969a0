package handlers

import (
	"context"
	"strconv"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	CallbackData string
	CallbackID   string
}

// OwnerID is the user id shared with the HTTP surfaces
func (m *Message) OwnerID() string {
	return strconv.FormatInt(m.UserID, 10)
}

// Handler processes a message routed to it by the bot
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	messageSender Sender
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(chatID int64, text string, markup any) {
	if h.messageSender != nil && text != "" {
		_ = h.messageSender.Send(chatID, text, markup)
	}
}

// NewBaseHandler creates a handler base around sender
func NewBaseHandler(sender Sender) *BaseHandler {
	return &BaseHandler{messageSender: sender}
}
