package recommend

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
)

type Recommender interface {
	Recommend(ctx context.Context, req *entity.RecommendRequest) ([]entity.Resource, error)
}
