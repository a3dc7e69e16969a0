package repository

import (
	"time"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/jackc/pgx/v5/pgtype"
)

// actionStepRow mirrors the action_steps table in PostgreSQL
type actionStepRow struct {
	ID          int64
	UserID      string
	Description string
	Details     pgtype.Text
	Completed   bool
	StepOrder   int32
	Difficulty  string
	FocusArea   pgtype.Text
	CreatedAt   pgtype.Timestamptz
}

func (r *actionStepRow) scanTargets() []any {
	return []any{
		&r.ID, &r.UserID, &r.Description, &r.Details, &r.Completed,
		&r.StepOrder, &r.Difficulty, &r.FocusArea, &r.CreatedAt,
	}
}

func toEntityActionStep(row *actionStepRow) *entity.ActionStep {
	return &entity.ActionStep{
		ID:          row.ID,
		UserID:      row.UserID,
		Description: row.Description,
		Details:     row.Details.String,
		Completed:   row.Completed,
		Order:       int(row.StepOrder),
		Difficulty:  row.Difficulty,
		FocusArea:   row.FocusArea.String,
		CreatedAt:   row.CreatedAt.Time,
	}
}

func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

type chatMessageRow struct {
	ID        int64
	UserID    string
	Content   string
	IsBot     bool
	CreatedAt pgtype.Timestamptz
}

func toEntityChatMessage(row *chatMessageRow) *entity.ChatMessage {
	return &entity.ChatMessage{
		ID:        row.ID,
		UserID:    row.UserID,
		Content:   row.Content,
		IsBot:     row.IsBot,
		Timestamp: row.CreatedAt.Time,
	}
}

// SQLite stores timestamps as unix milliseconds

func fromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toUnixMilli(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().UnixMilli()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
