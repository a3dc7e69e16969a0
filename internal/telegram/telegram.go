package telegram

import (
	"context"
	"fmt"

	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/telegram/bot"
	"github.com/futig/resource-assistant/internal/telegram/handlers"
	"github.com/futig/resource-assistant/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	storage state.Storage,
	intakeUC handlers.IntakeUsecase,
	chatUC handlers.ChatUsecase,
	formatters handlers.FormatterFactory,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, bot.Deps{
		StateManager: state.NewManager(storage),
		Intake:       intakeUC,
		Chat:         chatUC,
		Formatters:   formatters,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
