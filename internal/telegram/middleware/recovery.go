package middleware

import (
	"context"
	"runtime/debug"

	"github.com/futig/resource-assistant/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RecoveryMiddleware recovers from panics in update handlers
type RecoveryMiddleware struct {
	notifier Notifier
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(notifier Notifier) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		notifier: notifier,
	}
}

// Handle recovers from panics
func (m *RecoveryMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		ctxzap.Error(ctx, "panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())),
		)

		if _, chatID := updateIDs(update); chatID != 0 {
			if err := m.notifier.Send(chatID, render.ErrGeneric, nil); err != nil {
				ctxzap.Error(ctx, "failed to send error message", zap.Error(err))
			}
		}
	}()

	next(ctx, update)
}
