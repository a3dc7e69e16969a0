package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/telegram/handlers"
	"github.com/futig/resource-assistant/internal/telegram/keyboard"
	"github.com/futig/resource-assistant/internal/telegram/middleware"
	"github.com/futig/resource-assistant/internal/telegram/render"
	"github.com/futig/resource-assistant/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Deps are the use cases the bot talks to
type Deps struct {
	StateManager *state.Manager
	Intake       handlers.IntakeUsecase
	Chat         handlers.ChatUsecase
	Formatters   handlers.FormatterFactory
}

// Bot represents the Telegram bot
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.TelegramConfig
	sender       handlers.Sender
	stateManager *state.Manager
	keyboard     *keyboard.Builder
	intake       *handlers.IntakeHandler
	chat         *handlers.ChatHandler
	callback     *handlers.CallbackHandler
	errors       *handlers.BaseHandler
	logger       *zap.Logger
	loggingMW    *middleware.LoggingMiddleware
	recoveryMW   *middleware.RecoveryMiddleware
	rateLimitMW  *middleware.RateLimiterMiddleware
	updatesChan  tgbotapi.UpdatesChannel
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// New creates a new Telegram bot
func New(cfg *config.TelegramConfig, deps Deps, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	b := newBot(cfg, handlers.NewMessageSender(api, logger), deps, logger)
	b.api = api

	return b, nil
}

func newBot(cfg *config.TelegramConfig, sender handlers.Sender, deps Deps, logger *zap.Logger) *Bot {
	kb := keyboard.NewBuilder()

	intake := handlers.NewIntakeHandler(sender, deps.StateManager, deps.Intake, deps.Formatters, kb)
	chat := handlers.NewChatHandler(sender, deps.Chat)

	return &Bot{
		cfg:          cfg,
		sender:       sender,
		stateManager: deps.StateManager,
		keyboard:     kb,
		intake:       intake,
		chat:         chat,
		callback:     handlers.NewCallbackHandler(sender, intake, chat),
		errors:       handlers.NewBaseHandler(sender),
		logger:       logger,
		loggingMW:    middleware.NewLoggingMiddleware(logger),
		recoveryMW:   middleware.NewRecoveryMiddleware(sender),
		rateLimitMW:  middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, sender),
		stopChan:     make(chan struct{}),
	}
}

// Start starts receiving updates
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	go b.processUpdates(ctxzap.ToContext(ctx, b.logger))

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot and waits for running handlers up to the shutdown timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(context.WithoutCancel(ctx), u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware runs rate limiting, logging and recovery before routing
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(ctx, update, func(ctx context.Context, u tgbotapi.Update) {
		b.loggingMW.Handle(ctx, u, func(ctx context.Context, u tgbotapi.Update) {
			b.recoveryMW.Handle(ctx, u, b.handleUpdate)
		})
	})
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil && update.Message.Chat != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    message.From.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message.Command(), msg)
		return
	}

	st, err := b.stateManager.Get(ctx, msg.UserID)
	if err != nil {
		b.errors.HandleError(ctx, msg.ChatID, err)
		return
	}

	if st.Mode == state.ModeIntake {
		err = b.intake.Handle(ctx, msg)
	} else {
		err = b.chat.Handle(ctx, msg)
	}
	b.errors.HandleError(ctx, msg.ChatID, err)
}

func (b *Bot) handleCommand(ctx context.Context, command string, msg *handlers.Message) {
	ctxzap.Info(ctx, "command received", zap.String("command", command))

	var err error
	switch command {
	case "start":
		b.sender.Send(msg.ChatID, render.MsgWelcome, b.keyboard.MenuKeyboard())
	case "help":
		b.sender.Send(msg.ChatID, render.MsgHelp, nil)
	case "intake":
		err = b.intake.Start(ctx, msg)
	case "steps":
		err = b.chat.Handle(ctx, withText(msg, render.RequestSteps))
	case "progress":
		err = b.chat.Handle(ctx, withText(msg, render.RequestProgress))
	case "export":
		err = b.intake.Export(ctx, msg, exportFormat(msg.Text))
	case "cancel":
		err = b.intake.Cancel(ctx, msg)
	default:
		b.sender.Send(msg.ChatID, render.ErrUnknownCommand, nil)
	}

	b.errors.HandleError(ctx, msg.ChatID, err)
}

// exportFormat reads the optional argument of /export, pdf by default
func exportFormat(text string) entity.ResultFormat {
	_, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	format := entity.ResultFormat(strings.ToLower(strings.TrimSpace(arg)))
	if format == "md" {
		format = entity.FormatMarkdown
	}
	if !format.IsValid() {
		return entity.FormatPDF
	}
	return format
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil || query.Message == nil || query.Message.Chat == nil {
		b.sender.AnswerCallback(query.ID, "")
		return
	}

	msg := &handlers.Message{
		ChatID:       query.Message.Chat.ID,
		UserID:       query.From.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}

	b.errors.HandleError(ctx, msg.ChatID, b.callback.Handle(ctx, msg))
}

func withText(msg *handlers.Message, text string) *handlers.Message {
	m := *msg
	m.Text = text
	return &m
}
