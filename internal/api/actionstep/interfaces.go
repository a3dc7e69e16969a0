package actionstep

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
)

type ActionStepUsecase interface {
	List(ctx context.Context, userID string) ([]*entity.ActionStep, error)
	Create(ctx context.Context, userID string, req *entity.CreateActionStepRequest) (*entity.ActionStep, error)
	Update(ctx context.Context, userID string, id int64, req *entity.UpdateActionStepRequest) (*entity.ActionStep, error)
	Reorder(ctx context.Context, userID string, items []entity.ReorderItem) (int, error)
	Generate(ctx context.Context, userID, focusArea string) ([]*entity.ActionStep, error)
}
