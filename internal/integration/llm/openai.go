package llm

import (
	"context"
	"fmt"

	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAIConnector calls the OpenAI chat completions API
type OpenAIConnector struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIConnector(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIConnector {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(common.NewSDKHTTPClient(cfg.Timeout)),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIConnector{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

// Complete sends the system and user prompt as one chat completion. There is no retry.
func (c *OpenAIConnector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "requesting completion via OpenAI",
		zap.String("kind", string(req.Kind)),
		zap.String("model", c.model),
	)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai chat completion: %v", entity.ErrUpstreamFailure, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", entity.ErrUpstreamFailure)
	}

	content := resp.Choices[0].Message.Content

	ctxzap.Info(ctx, "completion received",
		zap.Int("result_length", len(content)),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
	)

	return content, nil
}
