package actionstep

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ActionStepUsecase manages the user's action plan
type ActionStepUsecase struct {
	repo   repository.ActionStepRepository
	logger *zap.Logger
}

func NewUsecase(repo repository.ActionStepRepository, logger *zap.Logger) *ActionStepUsecase {
	return &ActionStepUsecase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ActionStepUsecase) List(ctx context.Context, userID string) ([]*entity.ActionStep, error) {
	steps, err := uc.repo.ListActionSteps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list action steps: %w", err)
	}
	return steps, nil
}

// Create stores a new step, order and difficulty fall back to defaults
func (uc *ActionStepUsecase) Create(ctx context.Context, userID string, req *entity.CreateActionStepRequest) (*entity.ActionStep, error) {
	step := &entity.ActionStep{
		UserID:      userID,
		Description: strings.TrimSpace(req.Description),
		Order:       entity.DefaultStepOrder,
		Difficulty:  entity.DefaultDifficulty,
	}
	if req.Details != nil {
		step.Details = *req.Details
	}
	if req.Completed != nil {
		step.Completed = *req.Completed
	}
	if req.Order != nil {
		step.Order = *req.Order
	}
	if req.Difficulty != nil {
		step.Difficulty = *req.Difficulty
	}
	if req.FocusArea != nil {
		step.FocusArea = *req.FocusArea
	}

	created, err := uc.repo.CreateActionStep(ctx, step)
	if err != nil {
		return nil, fmt.Errorf("create action step: %w", err)
	}

	ctxzap.Info(ctx, "action step created", zap.Int64("step_id", created.ID))

	return created, nil
}

// Update applies only the fields present in the request
func (uc *ActionStepUsecase) Update(ctx context.Context, userID string, id int64, req *entity.UpdateActionStepRequest) (*entity.ActionStep, error) {
	step, err := uc.repo.GetActionStep(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get action step: %w", err)
	}

	if req.Description != nil {
		step.Description = strings.TrimSpace(*req.Description)
	}
	if req.Details != nil {
		step.Details = *req.Details
	}
	if req.Completed != nil {
		step.Completed = *req.Completed
	}
	if req.Order != nil {
		step.Order = *req.Order
	}
	if req.Difficulty != nil {
		step.Difficulty = *req.Difficulty
	}
	if req.FocusArea != nil {
		step.FocusArea = *req.FocusArea
	}

	updated, err := uc.repo.UpdateActionStep(ctx, step)
	if err != nil {
		return nil, fmt.Errorf("update action step: %w", err)
	}

	return updated, nil
}

// Reorder applies the new orders best effort. Unknown ids are skipped and
// the number of updated steps is returned.
func (uc *ActionStepUsecase) Reorder(ctx context.Context, userID string, items []entity.ReorderItem) (int, error) {
	updated := 0
	for _, item := range items {
		err := uc.repo.UpdateActionStepOrder(ctx, userID, item.ID, item.Order)
		if errors.Is(err, entity.ErrActionStepNotFound) {
			ctxzap.Debug(ctx, "skipping unknown action step", zap.Int64("step_id", item.ID))
			continue
		}
		if err != nil {
			return updated, fmt.Errorf("update action step order: %w", err)
		}
		updated++
	}

	ctxzap.Info(ctx, "action steps reordered",
		zap.Int("requested", len(items)),
		zap.Int("updated", updated),
	)

	return updated, nil
}

// Generate replaces every incomplete step with the template for the focus area
func (uc *ActionStepUsecase) Generate(ctx context.Context, userID, focusArea string) ([]*entity.ActionStep, error) {
	area := strings.ToLower(strings.TrimSpace(focusArea))
	tmpl, ok := templates[area]
	if !ok {
		return nil, fmt.Errorf("%w: %q, expected one of %s", entity.ErrUnknownFocusArea, focusArea, strings.Join(FocusAreas, ", "))
	}

	steps := make([]*entity.ActionStep, 0, len(tmpl))
	for i, t := range tmpl {
		steps = append(steps, &entity.ActionStep{
			UserID:      userID,
			Description: t.description,
			Details:     t.details,
			Order:       i + 1,
			Difficulty:  t.difficulty,
			FocusArea:   area,
		})
	}

	created, err := uc.repo.ReplaceIncompleteActionSteps(ctx, userID, steps)
	if err != nil {
		return nil, fmt.Errorf("replace incomplete action steps: %w", err)
	}

	ctxzap.Info(ctx, "action plan generated",
		zap.String("focus_area", area),
		zap.Int("steps", len(created)),
	)

	return created, nil
}
