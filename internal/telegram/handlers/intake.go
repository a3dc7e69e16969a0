package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/telegram/keyboard"
	"github.com/futig/resource-assistant/internal/telegram/render"
	"github.com/futig/resource-assistant/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// IntakeHandler drives the guided questionnaire inside a chat
type IntakeHandler struct {
	BaseHandler
	stateManager *state.Manager
	intakeUC     IntakeUsecase
	formatters   FormatterFactory
	keyboard     *keyboard.Builder
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(
	sender Sender,
	stateManager *state.Manager,
	intakeUC IntakeUsecase,
	formatters FormatterFactory,
	kb *keyboard.Builder,
) *IntakeHandler {
	return &IntakeHandler{
		BaseHandler:  BaseHandler{messageSender: sender},
		stateManager: stateManager,
		intakeUC:     intakeUC,
		formatters:   formatters,
		keyboard:     kb,
	}
}

// Start opens a new intake session, replacing any running one
func (h *IntakeHandler) Start(ctx context.Context, msg *Message) error {
	resp, err := h.intakeUC.Start(ctx)
	if err != nil {
		return fmt.Errorf("start intake: %w", err)
	}

	if err := h.stateManager.StartIntake(ctx, msg.UserID, resp.SessionID, resp.NextQuestion); err != nil {
		return err
	}

	ctxzap.Info(ctx, "intake started from telegram",
		zap.Int64("user_id", msg.UserID),
		zap.String("session_id", resp.SessionID),
	)

	h.sendMessage(msg.ChatID, resp.Message, nil)
	h.askQuestion(msg.ChatID, resp.NextQuestion)

	return nil
}

// Handle answers the current question with the message text
func (h *IntakeHandler) Handle(ctx context.Context, msg *Message) error {
	st, err := h.stateManager.Get(ctx, msg.UserID)
	if err != nil {
		return err
	}

	if st.Mode != state.ModeIntake || st.IntakeSessionID == "" {
		h.sendMessage(msg.ChatID, render.MsgHelp, nil)
		return nil
	}

	if strings.TrimSpace(msg.Text) == "" {
		h.sendMessage(msg.ChatID, render.MsgTextOnly, nil)
		return nil
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("session_id", st.IntakeSessionID)))

	// The income answer triggers generation which takes a while
	typing := NewTypingNotifier(h.messageSender, msg.ChatID)
	typing.Start(ctx)
	resp, err := h.intakeUC.Respond(ctx, st.IntakeSessionID, "", entity.TextAnswer(msg.Text))
	typing.Stop()

	switch {
	case errors.Is(err, entity.ErrInvalidAnswer):
		reason := strings.TrimPrefix(err.Error(), entity.ErrInvalidAnswer.Error()+": ")
		h.sendMessage(msg.ChatID, fmt.Sprintf(render.ErrInvalidAnswer, reason), nil)
		h.askQuestion(msg.ChatID, st.LastQuestion)
		return nil
	case errors.Is(err, entity.ErrInvalidSession), errors.Is(err, entity.ErrSessionCompleted):
		if resetErr := h.stateManager.Reset(ctx, msg.UserID); resetErr != nil {
			ctxzap.Warn(ctx, "failed to reset chat state", zap.Error(resetErr))
		}
		h.sendMessage(msg.ChatID, render.ErrSessionExpired, h.keyboard.RemoveKeyboard())
		return nil
	case err != nil:
		return fmt.Errorf("respond to intake: %w", err)
	}

	return h.deliver(ctx, msg, resp)
}

func (h *IntakeHandler) deliver(ctx context.Context, msg *Message, resp *entity.RespondResponse) error {
	if resp.NextQuestion == nil {
		h.sendMessage(msg.ChatID, resp.Message, h.keyboard.RemoveKeyboard())
	} else {
		h.sendMessage(msg.ChatID, resp.Message, nil)
	}

	for _, m := range resp.Messages {
		h.sendMessage(msg.ChatID, render.BotMessage(m), nil)
	}

	if resp.NextQuestion != nil {
		if err := h.stateManager.SetQuestion(ctx, msg.UserID, resp.NextQuestion); err != nil {
			return err
		}
		h.askQuestion(msg.ChatID, resp.NextQuestion)
		return nil
	}

	if err := h.stateManager.FinishIntake(ctx, msg.UserID); err != nil {
		return err
	}

	st, err := h.stateManager.Get(ctx, msg.UserID)
	if err != nil {
		return err
	}

	report, err := h.intakeUC.GetResources(ctx, st.IntakeSessionID)
	if err == nil && hasResources(report) {
		h.sendMessage(msg.ChatID, render.MsgReportReady, h.keyboard.DownloadKeyboard())
	}

	return nil
}

// Cancel drops the running questionnaire
func (h *IntakeHandler) Cancel(ctx context.Context, msg *Message) error {
	st, err := h.stateManager.Get(ctx, msg.UserID)
	if err != nil {
		return err
	}

	if st.Mode != state.ModeIntake {
		h.sendMessage(msg.ChatID, render.MsgNothingToCancel, nil)
		return nil
	}

	if err := h.stateManager.Reset(ctx, msg.UserID); err != nil {
		return err
	}

	h.sendMessage(msg.ChatID, render.MsgIntakeCancelled, h.keyboard.RemoveKeyboard())
	return nil
}

// Export sends the resources of the last intake session as a document
func (h *IntakeHandler) Export(ctx context.Context, msg *Message, format entity.ResultFormat) error {
	st, err := h.stateManager.Get(ctx, msg.UserID)
	if err != nil {
		return err
	}

	if st.IntakeSessionID == "" {
		h.sendMessage(msg.ChatID, render.MsgNoReport, nil)
		return nil
	}

	report, err := h.intakeUC.GetResources(ctx, st.IntakeSessionID)
	if errors.Is(err, entity.ErrInvalidSession) || (err == nil && !hasResources(report)) {
		h.sendMessage(msg.ChatID, render.MsgNoReport, nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get resources: %w", err)
	}

	f, err := h.formatters.Create(format)
	if err != nil {
		return fmt.Errorf("create formatter: %w", err)
	}

	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format report: %w", err)
	}

	ctxzap.Info(ctx, "sending resource report",
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)),
	)

	return h.messageSender.SendDocument(msg.ChatID, "resources"+f.FileExtension(), data)
}

func (h *IntakeHandler) askQuestion(chatID int64, q *entity.Question) {
	if q == nil {
		return
	}
	h.sendMessage(chatID, render.Question(q), h.keyboard.QuestionKeyboard(q))
}

func hasResources(report *entity.ResourceReport) bool {
	for _, section := range report.Sections {
		if len(section.Resources) > 0 {
			return true
		}
	}
	return false
}
