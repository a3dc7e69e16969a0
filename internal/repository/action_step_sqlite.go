package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/futig/resource-assistant/internal/entity"
)

var _ ActionStepRepository = &ActionStepSQLite{}

// ActionStepSQLite implements ActionStepRepository using SQLite
type ActionStepSQLite struct {
	store *SQLiteDB
}

func NewActionStepSQLite(store *SQLiteDB) *ActionStepSQLite {
	return &ActionStepSQLite{
		store: store,
	}
}

func (r *ActionStepSQLite) ListActionSteps(ctx context.Context, userID string) ([]*entity.ActionStep, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+actionStepColumns+`
		FROM action_steps
		WHERE user_id = ?
		ORDER BY step_order, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query action steps: %w", err)
	}

	return scanSQLiteActionSteps(rows)
}

func (r *ActionStepSQLite) ListIncompleteActionSteps(
	ctx context.Context,
	userID string,
	limit int,
) ([]*entity.ActionStep, error) {
	query := `
		SELECT ` + actionStepColumns + `
		FROM action_steps
		WHERE user_id = ? AND completed = 0
		ORDER BY step_order, id`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incomplete action steps: %w", err)
	}

	return scanSQLiteActionSteps(rows)
}

func (r *ActionStepSQLite) GetActionStep(ctx context.Context, userID string, id int64) (*entity.ActionStep, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT `+actionStepColumns+`
		FROM action_steps
		WHERE user_id = ? AND id = ?`, userID, id)

	step, err := scanSQLiteActionStep(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrActionStepNotFound
		}
		return nil, fmt.Errorf("get action step: %w", err)
	}

	return step, nil
}

func (r *ActionStepSQLite) CreateActionStep(ctx context.Context, step *entity.ActionStep) (*entity.ActionStep, error) {
	var id int64
	err := r.store.withRetry(ctx, func() error {
		var err error
		id, err = insertActionStepSQLite(ctx, r.store.db, step)
		return err
	})
	if err != nil {
		return nil, err
	}

	return r.GetActionStep(ctx, step.UserID, id)
}

func (r *ActionStepSQLite) UpdateActionStep(ctx context.Context, step *entity.ActionStep) (*entity.ActionStep, error) {
	err := r.store.withRetry(ctx, func() error {
		res, err := r.store.db.ExecContext(ctx, `
			UPDATE action_steps
			SET description = ?, details = ?, completed = ?, step_order = ?, difficulty = ?, focus_area = ?
			WHERE user_id = ? AND id = ?`,
			step.Description, step.Details, boolToInt(step.Completed), step.Order, step.Difficulty, step.FocusArea,
			step.UserID, step.ID,
		)
		if err != nil {
			return fmt.Errorf("update action step: %w", err)
		}
		return expectAffected(res)
	})
	if err != nil {
		return nil, err
	}

	return r.GetActionStep(ctx, step.UserID, step.ID)
}

func (r *ActionStepSQLite) UpdateActionStepOrder(ctx context.Context, userID string, id int64, order int) error {
	return r.store.withRetry(ctx, func() error {
		res, err := r.store.db.ExecContext(ctx, `
			UPDATE action_steps SET step_order = ?
			WHERE user_id = ? AND id = ?`, order, userID, id)
		if err != nil {
			return fmt.Errorf("update action step order: %w", err)
		}
		return expectAffected(res)
	})
}

func (r *ActionStepSQLite) ReplaceIncompleteActionSteps(
	ctx context.Context,
	userID string,
	steps []*entity.ActionStep,
) ([]*entity.ActionStep, error) {
	ids := make([]int64, 0, len(steps))

	err := r.store.withRetry(ctx, func() error {
		ids = ids[:0]

		tx, err := r.store.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `DELETE FROM action_steps WHERE user_id = ? AND completed = 0`, userID); err != nil {
			return fmt.Errorf("delete incomplete action steps: %w", err)
		}

		for _, step := range steps {
			step.UserID = userID
			id, err := insertActionStepSQLite(ctx, tx, step)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := make([]*entity.ActionStep, 0, len(ids))
	for _, id := range ids {
		step, err := r.GetActionStep(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		created = append(created, step)
	}

	return created, nil
}

func (r *ActionStepSQLite) GetProgress(ctx context.Context, userID string) (*entity.ProgressStats, error) {
	var stats entity.ProgressStats
	err := r.store.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(completed), 0), COUNT(*)
		FROM action_steps
		WHERE user_id = ?`, userID).Scan(&stats.Completed, &stats.Total)
	if err != nil {
		return nil, fmt.Errorf("count action steps: %w", err)
	}

	return &stats, nil
}

// sqlExecer is satisfied by both *sql.DB and *sql.Tx
type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertActionStepSQLite(ctx context.Context, exec sqlExecer, step *entity.ActionStep) (int64, error) {
	res, err := exec.ExecContext(ctx, `
		INSERT INTO action_steps (user_id, description, details, completed, step_order, difficulty, focus_area, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		step.UserID, step.Description, step.Details, boolToInt(step.Completed), step.Order,
		step.Difficulty, step.FocusArea, toUnixMilli(step.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert action step: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	return id, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if n == 0 {
		return entity.ErrActionStepNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteActionStep(row rowScanner) (*entity.ActionStep, error) {
	var (
		step      entity.ActionStep
		completed int
		createdAt int64
	)

	err := row.Scan(
		&step.ID, &step.UserID, &step.Description, &step.Details, &completed,
		&step.Order, &step.Difficulty, &step.FocusArea, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	step.Completed = completed != 0
	step.CreatedAt = fromUnixMilli(createdAt)

	return &step, nil
}

func scanSQLiteActionSteps(rows *sql.Rows) ([]*entity.ActionStep, error) {
	defer rows.Close()

	steps := make([]*entity.ActionStep, 0)
	for rows.Next() {
		step, err := scanSQLiteActionStep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action step: %w", err)
		}
		steps = append(steps, step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action steps: %w", err)
	}

	return steps, nil
}
