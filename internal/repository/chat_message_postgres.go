package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ChatMessageRepository = &ChatMessagePostgres{}

// ChatMessagePostgres implements ChatMessageRepository using PostgreSQL
type ChatMessagePostgres struct {
	db *pgxpool.Pool
}

func NewChatMessagePostgres(db *pgxpool.Pool) *ChatMessagePostgres {
	return &ChatMessagePostgres{
		db: db,
	}
}

func (r *ChatMessagePostgres) CreateChatMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatMessage, error) {
	var row chatMessageRow
	err := r.db.QueryRow(ctx, `
		INSERT INTO chat_messages (user_id, content, is_bot)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, content, is_bot, created_at`,
		msg.UserID, msg.Content, msg.IsBot,
	).Scan(&row.ID, &row.UserID, &row.Content, &row.IsBot, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create chat message: %w", err)
	}

	return toEntityChatMessage(&row), nil
}

func (r *ChatMessagePostgres) ListChatMessages(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, user_id, content, is_bot, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*entity.ChatMessage, 0)
	for rows.Next() {
		var row chatMessageRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Content, &row.IsBot, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, toEntityChatMessage(&row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}

	slices.Reverse(messages)

	return messages, nil
}
