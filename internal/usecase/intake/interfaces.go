package intake

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
)

type Recommender interface {
	GenerateResources(ctx context.Context, info entity.UserInfo) entity.GenerationResult
	ResourceDetail(ctx context.Context, resource entity.Resource, zipCode string) (string, bool)
}
