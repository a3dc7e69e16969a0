package builder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/futig/resource-assistant/internal/api"
	actionstepapi "github.com/futig/resource-assistant/internal/api/actionstep"
	chatapi "github.com/futig/resource-assistant/internal/api/chat"
	intakeapi "github.com/futig/resource-assistant/internal/api/intake"
	"github.com/futig/resource-assistant/internal/api/middleware"
	recommendapi "github.com/futig/resource-assistant/internal/api/recommend"
	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/integration/llm"
	"github.com/futig/resource-assistant/internal/pkg/formatter"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/futig/resource-assistant/internal/repository"
	"github.com/futig/resource-assistant/internal/telegram"
	"github.com/futig/resource-assistant/internal/telegram/state"
	"github.com/futig/resource-assistant/internal/usecase/actionstep"
	"github.com/futig/resource-assistant/internal/usecase/chat"
	"github.com/futig/resource-assistant/internal/usecase/intake"
	"github.com/futig/resource-assistant/internal/usecase/recommendation"
	"go.uber.org/zap"
)

// Telegram chat states outlive a single intake session
const telegramStateTTL = 24 * time.Hour

// usecases shared by the HTTP server and the Telegram bot
type usecases struct {
	intake         *intake.IntakeUsecase
	recommendation *recommendation.RecommendationUsecase
	actionSteps    *actionstep.ActionStepUsecase
	chat           *chat.ChatUsecase
}

func buildUsecases(cfg *config.Config, store *storage, logger *zap.Logger) (*usecases, error) {
	prompts, err := recommendation.NewPromptBuilder(cfg.PromptVersion)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	recommendationUC := recommendation.NewUsecase(setupCompletion(cfg, logger), prompts, logger)
	sessions := repository.NewSessionCache(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval)

	logger.Info("Use cases initialized", zap.String("prompt_version", cfg.PromptVersion))

	return &usecases{
		intake:         intake.NewUsecase(sessions, recommendationUC, logger),
		recommendation: recommendationUC,
		actionSteps:    actionstep.NewUsecase(store.steps, logger),
		chat:           chat.NewUsecase(store.steps, store.messages, logger),
	}, nil
}

// setupCompletion picks the completion backend
func setupCompletion(cfg *config.Config, logger *zap.Logger) recommendation.CompletionClient {
	switch {
	case cfg.EnableMocks:
		logger.Info("Using mock completion connector")
		return llm.NewMockConnector(logger)
	case cfg.LLMProvider == config.LLMProviderGateway:
		logger.Info("Using LLM gateway", zap.String("url", cfg.LLMGatewayCfg.Url))
		return llm.NewConnector(cfg.LLMGatewayCfg, logger)
	default:
		logger.Info("Using OpenAI", zap.String("model", cfg.OpenAICfg.Model))
		return llm.NewOpenAIConnector(cfg.OpenAICfg, logger)
	}
}

// originHosts turns allowed origins into the host patterns the websocket
// handshake matches against
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			hosts = append(hosts, origin)
			continue
		}

		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			hosts = append(hosts, origin)
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("storage_driver", cfg.StorageDriver),
	)

	store, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	ucs, err := buildUsecases(cfg, store, logger)
	if err != nil {
		store.close()
		return nil, err
	}

	v := validator.New()
	hub := chatapi.NewHub()
	chatLimiter := middleware.NewUserLimiter(cfg.ChatRateLimitPerMinute)

	router := api.SetupRouter(api.Handlers{
		Intake:      intakeapi.NewHandler(ucs.intake, v, formatter.NewFactory()),
		ActionSteps: actionstepapi.NewHandler(ucs.actionSteps, v),
		Chat:        chatapi.NewHandler(ucs.chat, v, hub, chatLimiter),
		ChatSocket:  chatapi.NewWebSocketHandler(ucs.chat, v, hub, chatLimiter, originHosts(cfg.AllowedOrigins)),
		Recommend:   recommendapi.NewHandler(ucs.recommendation, v),
	}, cfg, logger)
	logger.Info("HTTP router configured")

	// No write timeout: completions are bounded by the request timeout
	// middleware and websocket connections stay open.
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:       server,
		hub:          hub,
		closeStorage: store.close,
		logger:       logger,
	}, nil
}

// BuildTelegramBot creates the Telegram bot and returns a cleanup releasing its storage
func BuildTelegramBot() (telegram.Bot, func(), *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN must be set")
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	store, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup storage: %w", err)
	}

	ucs, err := buildUsecases(cfg, store, logger)
	if err != nil {
		store.close()
		return nil, nil, nil, err
	}

	states := state.NewMemoryStorage(telegramStateTTL, cfg.SessionCfg.CleanupInterval)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, states, ucs.intake, ucs.chat, formatter.NewFactory(), logger)
	if err != nil {
		store.close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, store.close, logger, nil
}
