package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// RecommendationUsecase wraps every completion call behind a validating decode.
// Each call is attempted exactly once.
type RecommendationUsecase struct {
	completion CompletionClient
	prompts    *PromptBuilder
	logger     *zap.Logger
}

func NewUsecase(
	completion CompletionClient,
	prompts *PromptBuilder,
	logger *zap.Logger,
) *RecommendationUsecase {
	return &RecommendationUsecase{
		completion: completion,
		prompts:    prompts,
		logger:     logger,
	}
}

// GenerateResources runs the bulk generation for a finished intake profile.
// Failures are reported through the result status, never as an error.
func (uc *RecommendationUsecase) GenerateResources(ctx context.Context, info entity.UserInfo) entity.GenerationResult {
	prompt, err := uc.prompts.BulkPrompt(info)
	if err != nil {
		ctxzap.Error(ctx, "failed to render bulk prompt", zap.Error(err))
		return entity.GenerationResult{Status: entity.GenerationUpstreamError, Err: err}
	}

	raw, err := uc.completion.Complete(ctx, &entity.CompletionRequest{
		Kind:         entity.PromptKindBulk,
		SystemPrompt: uc.prompts.SystemPrompt(),
		Prompt:       prompt,
	})
	if err != nil {
		ctxzap.Error(ctx, "bulk generation failed", zap.Error(err))
		return entity.GenerationResult{Status: entity.GenerationUpstreamError, Err: err}
	}

	resources, err := ParseResources(raw)
	if err != nil {
		ctxzap.Error(ctx, "bulk generation returned malformed output",
			zap.Error(err),
			zap.String("raw", raw),
		)
		return entity.GenerationResult{Status: entity.GenerationMalformed, Err: err}
	}

	ctxzap.Info(ctx, "resources generated", zap.Int("count", len(resources)))

	return entity.GenerationResult{Status: entity.GenerationSuccess, Resources: resources}
}

// ResourceDetail returns the narrative for one resource. The second value is
// false when the completion failed and the caller has to degrade.
func (uc *RecommendationUsecase) ResourceDetail(ctx context.Context, resource entity.Resource, zipCode string) (string, bool) {
	prompt, err := uc.prompts.DetailPrompt(resource, zipCode)
	if err != nil {
		ctxzap.Error(ctx, "failed to render detail prompt", zap.Error(err))
		return "", false
	}

	detail, err := uc.completion.Complete(ctx, &entity.CompletionRequest{
		Kind:         entity.PromptKindDetail,
		SystemPrompt: uc.prompts.SystemPrompt(),
		Prompt:       prompt,
	})
	if err != nil {
		ctxzap.Error(ctx, "detail lookup failed",
			zap.Error(err),
			zap.String("resource", resource.Name),
		)
		return "", false
	}

	detail = strings.TrimSpace(detail)
	if detail == "" {
		ctxzap.Warn(ctx, "detail lookup returned empty text", zap.String("resource", resource.Name))
		return "", false
	}

	return detail, true
}

// Recommend serves the one-shot recommendation request. Malformed output and
// upstream failures are returned to the caller.
func (uc *RecommendationUsecase) Recommend(ctx context.Context, req *entity.RecommendRequest) ([]entity.Resource, error) {
	prompt, err := uc.prompts.RecommendPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("render recommend prompt: %w", err)
	}

	raw, err := uc.completion.Complete(ctx, &entity.CompletionRequest{
		Kind:         entity.PromptKindRecommend,
		SystemPrompt: uc.prompts.SystemPrompt(),
		Prompt:       prompt,
	})
	if err != nil {
		if !errors.Is(err, entity.ErrUpstreamFailure) {
			err = fmt.Errorf("%w: %v", entity.ErrUpstreamFailure, err)
		}
		return nil, fmt.Errorf("complete recommend prompt: %w", err)
	}

	resources, err := ParseResources(raw)
	if err != nil {
		ctxzap.Error(ctx, "recommendation returned malformed output",
			zap.Error(err),
			zap.String("raw", raw),
		)
		return nil, fmt.Errorf("parse recommendations: %w", err)
	}

	return resources, nil
}
