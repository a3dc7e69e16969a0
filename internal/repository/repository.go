package repository

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
)

// ActionStepRepository defines persistence of the user's action plan.
// Every operation is scoped to a single user.
type ActionStepRepository interface {
	// ListActionSteps returns steps ordered by order then id
	ListActionSteps(ctx context.Context, userID string) ([]*entity.ActionStep, error)
	// ListIncompleteActionSteps returns incomplete steps by order, limit <= 0 means all
	ListIncompleteActionSteps(ctx context.Context, userID string, limit int) ([]*entity.ActionStep, error)
	GetActionStep(ctx context.Context, userID string, id int64) (*entity.ActionStep, error)
	CreateActionStep(ctx context.Context, step *entity.ActionStep) (*entity.ActionStep, error)
	UpdateActionStep(ctx context.Context, step *entity.ActionStep) (*entity.ActionStep, error)
	UpdateActionStepOrder(ctx context.Context, userID string, id int64, order int) error
	// ReplaceIncompleteActionSteps deletes all incomplete steps and inserts the given ones atomically
	ReplaceIncompleteActionSteps(ctx context.Context, userID string, steps []*entity.ActionStep) ([]*entity.ActionStep, error)
	GetProgress(ctx context.Context, userID string) (*entity.ProgressStats, error)
}

// ChatMessageRepository defines the append-only chat history
type ChatMessageRepository interface {
	CreateChatMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatMessage, error)
	// ListChatMessages returns the latest messages in chronological order, limit <= 0 means all
	ListChatMessages(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error)
}

// SessionRepository stores in-flight intake sessions
type SessionRepository interface {
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	SaveSession(ctx context.Context, session *entity.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
}
