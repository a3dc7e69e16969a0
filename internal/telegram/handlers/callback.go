package handlers

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/telegram/keyboard"
	"github.com/futig/resource-assistant/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles inline button presses
type CallbackHandler struct {
	BaseHandler
	intake *IntakeHandler
	chat   *ChatHandler
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(sender Sender, intake *IntakeHandler, chat *ChatHandler) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{messageSender: sender},
		intake:      intake,
		chat:        chat,
	}
}

// Handle routes the callback data of msg
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	cb, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err))
		_ = h.messageSender.AnswerCallback(msg.CallbackID, "Unknown action")
		return nil
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("action", cb.Action),
		zap.String("value", cb.Value),
	)

	// Answer right away so Telegram stops showing the spinner
	_ = h.messageSender.AnswerCallback(msg.CallbackID, "")

	switch cb.Action {
	case keyboard.ActionMenu:
		switch cb.Value {
		case keyboard.ValueIntake:
			return h.intake.Start(ctx, msg)
		case keyboard.ValueSteps:
			return h.chat.Handle(ctx, withText(msg, render.RequestSteps))
		case keyboard.ValueProgress:
			return h.chat.Handle(ctx, withText(msg, render.RequestProgress))
		}
	case keyboard.ActionDownload:
		format := entity.ResultFormat(cb.Value)
		if format.IsValid() {
			return h.intake.Export(ctx, msg, format)
		}
	}

	ctxzap.Warn(ctx, "unsupported callback", zap.String("data", msg.CallbackData))
	h.sendMessage(msg.ChatID, render.ErrUnknownCommand, nil)
	return nil
}

func withText(msg *Message, text string) *Message {
	m := *msg
	m.Text = text
	return &m
}
