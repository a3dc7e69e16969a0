package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
)

var _ ChatMessageRepository = &ChatMessageSQLite{}

// ChatMessageSQLite implements ChatMessageRepository using SQLite
type ChatMessageSQLite struct {
	store *SQLiteDB
}

func NewChatMessageSQLite(store *SQLiteDB) *ChatMessageSQLite {
	return &ChatMessageSQLite{
		store: store,
	}
}

func (r *ChatMessageSQLite) CreateChatMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatMessage, error) {
	created := *msg
	if created.Timestamp.IsZero() {
		created.Timestamp = time.Now().UTC()
	}

	err := r.store.withRetry(ctx, func() error {
		res, err := r.store.db.ExecContext(ctx, `
			INSERT INTO chat_messages (user_id, content, is_bot, created_at)
			VALUES (?, ?, ?, ?)`,
			created.UserID, created.Content, boolToInt(created.IsBot), toUnixMilli(created.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("create chat message: %w", err)
		}

		created.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read inserted id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.Timestamp = fromUnixMilli(toUnixMilli(created.Timestamp))

	return &created, nil
}

func (r *ChatMessageSQLite) ListChatMessages(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, user_id, content, is_bot, created_at
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*entity.ChatMessage, 0)
	for rows.Next() {
		var (
			msg       entity.ChatMessage
			isBot     int
			createdAt int64
		)
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Content, &isBot, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		msg.IsBot = isBot != 0
		msg.Timestamp = fromUnixMilli(createdAt)
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}

	slices.Reverse(messages)

	return messages, nil
}
