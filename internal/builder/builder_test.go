package builder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/integration/llm"
	pkgRetry "github.com/futig/resource-assistant/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOriginHosts(t *testing.T) {
	got := originHosts([]string{"*", "http://localhost:3000", "https://app.example.org", "example.com"})
	assert.Equal(t, []string{"*", "localhost:3000", "app.example.org", "example.com"}, got)
}

func TestSetupLogger(t *testing.T) {
	logger, err := setupLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = setupLogger("loud")
	require.Error(t, err)
}

func TestSetupCompletion(t *testing.T) {
	cfg := &config.Config{EnableMocks: true, LLMProvider: config.LLMProviderOpenAI}
	assert.IsType(t, &llm.MockConnector{}, setupCompletion(cfg, zap.NewNop()))

	cfg = &config.Config{LLMProvider: config.LLMProviderGateway}
	assert.IsType(t, &llm.Connector{}, setupCompletion(cfg, zap.NewNop()))

	cfg = &config.Config{LLMProvider: config.LLMProviderOpenAI, OpenAICfg: config.OpenAIConfig{APIKey: "k", Timeout: time.Second}}
	assert.IsType(t, &llm.OpenAIConnector{}, setupCompletion(cfg, zap.NewNop()))
}

func TestBuildUsecasesOnSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StorageDriver: config.StorageDriverSQLite,
		SQLiteCfg: config.SQLiteConfig{
			Path:         filepath.Join(t.TempDir(), "app.db"),
			MaxOpenConns: 1,
			BusyTimeout:  time.Second,
			Retry:        pkgRetry.RetryConfig{Attempts: 2, Delay: time.Millisecond, MaxDelay: time.Millisecond},
		},
		SessionCfg:    config.SessionConfig{TTL: time.Minute, CleanupInterval: time.Minute},
		PromptVersion: "v2",
		EnableMocks:   true,
	}

	store, err := setupStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.close)

	ucs, err := buildUsecases(cfg, store, zap.NewNop())
	require.NoError(t, err)

	exchange, err := ucs.chat.HandleMessage(ctx, "u1", "help")
	require.NoError(t, err)
	assert.True(t, exchange.BotMessage.IsBot)

	start, err := ucs.intake.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.IntakeStepEmergency, start.NextQuestion.Type)
}
