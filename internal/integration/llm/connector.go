package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/integration/common"
	pkghttp "github.com/futig/resource-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to a self-hosted completion gateway over HTTP
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete sends a single prompt to the gateway. There is no retry.
func (c *Connector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "requesting completion via LLM gateway", zap.String("kind", string(req.Kind)))

	body := &entity.LLMCompletionRequest{
		SystemPrompt: req.SystemPrompt,
		Prompt:       req.Prompt,
		Kind:         string(req.Kind),
	}

	var resp entity.LLMCompletionResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionEndpoint, body, &resp,
		pkghttp.WithHeader("X-Completion-Kind", string(req.Kind)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: gateway completion: %v", entity.ErrUpstreamFailure, err)
	}

	if resp.Result == "" {
		return "", fmt.Errorf("%w: empty completion result", entity.ErrUpstreamFailure)
	}

	ctxzap.Info(ctx, "completion received", zap.Int("result_length", len(resp.Result)))

	return resp.Result, nil
}
