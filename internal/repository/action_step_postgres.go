package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ActionStepRepository = &ActionStepPostgres{}

const actionStepColumns = `id, user_id, description, details, completed, step_order, difficulty, focus_area, created_at`

// ActionStepPostgres implements ActionStepRepository using PostgreSQL
type ActionStepPostgres struct {
	db *pgxpool.Pool
}

func NewActionStepPostgres(db *pgxpool.Pool) *ActionStepPostgres {
	return &ActionStepPostgres{
		db: db,
	}
}

func (r *ActionStepPostgres) ListActionSteps(ctx context.Context, userID string) ([]*entity.ActionStep, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+actionStepColumns+`
		FROM action_steps
		WHERE user_id = $1
		ORDER BY step_order, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query action steps: %w", err)
	}

	return collectActionSteps(rows)
}

func (r *ActionStepPostgres) ListIncompleteActionSteps(
	ctx context.Context,
	userID string,
	limit int,
) ([]*entity.ActionStep, error) {
	query := `
		SELECT ` + actionStepColumns + `
		FROM action_steps
		WHERE user_id = $1 AND NOT completed
		ORDER BY step_order, id`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incomplete action steps: %w", err)
	}

	return collectActionSteps(rows)
}

func (r *ActionStepPostgres) GetActionStep(ctx context.Context, userID string, id int64) (*entity.ActionStep, error) {
	var row actionStepRow
	err := r.db.QueryRow(ctx, `
		SELECT `+actionStepColumns+`
		FROM action_steps
		WHERE user_id = $1 AND id = $2`, userID, id).Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrActionStepNotFound
		}
		return nil, fmt.Errorf("get action step: %w", err)
	}

	return toEntityActionStep(&row), nil
}

func (r *ActionStepPostgres) CreateActionStep(ctx context.Context, step *entity.ActionStep) (*entity.ActionStep, error) {
	return insertActionStepPg(ctx, r.db, step)
}

func (r *ActionStepPostgres) UpdateActionStep(ctx context.Context, step *entity.ActionStep) (*entity.ActionStep, error) {
	var row actionStepRow
	err := r.db.QueryRow(ctx, `
		UPDATE action_steps
		SET description = $3, details = $4, completed = $5, step_order = $6, difficulty = $7, focus_area = $8
		WHERE user_id = $1 AND id = $2
		RETURNING `+actionStepColumns,
		step.UserID, step.ID, step.Description, toPgText(step.Details), step.Completed, step.Order, step.Difficulty,
		toPgText(step.FocusArea),
	).Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrActionStepNotFound
		}
		return nil, fmt.Errorf("update action step: %w", err)
	}

	return toEntityActionStep(&row), nil
}

func (r *ActionStepPostgres) UpdateActionStepOrder(ctx context.Context, userID string, id int64, order int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE action_steps SET step_order = $3
		WHERE user_id = $1 AND id = $2`, userID, id, order)
	if err != nil {
		return fmt.Errorf("update action step order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrActionStepNotFound
	}

	return nil
}

func (r *ActionStepPostgres) ReplaceIncompleteActionSteps(
	ctx context.Context,
	userID string,
	steps []*entity.ActionStep,
) ([]*entity.ActionStep, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM action_steps WHERE user_id = $1 AND NOT completed`, userID); err != nil {
		return nil, fmt.Errorf("delete incomplete action steps: %w", err)
	}

	created := make([]*entity.ActionStep, 0, len(steps))
	for _, step := range steps {
		step.UserID = userID
		saved, err := insertActionStepPg(ctx, tx, step)
		if err != nil {
			return nil, err
		}
		created = append(created, saved)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return created, nil
}

func (r *ActionStepPostgres) GetProgress(ctx context.Context, userID string) (*entity.ProgressStats, error) {
	var stats entity.ProgressStats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE completed), COUNT(*)
		FROM action_steps
		WHERE user_id = $1`, userID).Scan(&stats.Completed, &stats.Total)
	if err != nil {
		return nil, fmt.Errorf("count action steps: %w", err)
	}

	return &stats, nil
}

// pgQuerier is satisfied by both the pool and a transaction
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertActionStepPg(ctx context.Context, q pgQuerier, step *entity.ActionStep) (*entity.ActionStep, error) {
	var row actionStepRow
	err := q.QueryRow(ctx, `
		INSERT INTO action_steps (user_id, description, details, completed, step_order, difficulty, focus_area)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+actionStepColumns,
		step.UserID, step.Description, toPgText(step.Details), step.Completed, step.Order, step.Difficulty, toPgText(step.FocusArea),
	).Scan(row.scanTargets()...)
	if err != nil {
		return nil, fmt.Errorf("insert action step: %w", err)
	}

	return toEntityActionStep(&row), nil
}

func collectActionSteps(rows pgx.Rows) ([]*entity.ActionStep, error) {
	defer rows.Close()

	steps := make([]*entity.ActionStep, 0)
	for rows.Next() {
		var row actionStepRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scan action step: %w", err)
		}
		steps = append(steps, toEntityActionStep(&row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action steps: %w", err)
	}

	return steps, nil
}
