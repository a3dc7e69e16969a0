package recommendation

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
)

type CompletionClient interface {
	Complete(ctx context.Context, req *entity.CompletionRequest) (string, error)
}
