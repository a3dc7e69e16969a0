package chat

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
)

type ChatUsecase interface {
	HandleMessage(ctx context.Context, userID, text string) (*entity.ChatExchange, error)
	History(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error)
}
