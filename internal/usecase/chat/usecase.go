package chat

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const shownStepsLimit = 3

const (
	allDoneMessage      = "Congratulations! You've completed all your action steps."
	stepsHeader         = "Here are your next steps:"
	askStepNumber       = "Which step did you complete? Please tell me the step number, for example \"mark step 1 done\"."
	stepCompleted       = "Great job! I've marked \"%s\" as completed."
	noPlanMessage       = "You haven't started an action plan yet. Add a few steps to begin tracking your progress."
	progressMessage     = "You've completed %d of %d steps (%d%%). Keep going!"
	helpMessage         = "I can help you with your action plan. Try asking me to show your next steps, mark a step as completed, or check your progress."
	defaultHistoryLimit = 50
)

// ChatUsecase answers free text messages about the user's action plan
type ChatUsecase struct {
	stepRepo    repository.ActionStepRepository
	messageRepo repository.ChatMessageRepository
	now         func() time.Time
	logger      *zap.Logger
}

func NewUsecase(
	stepRepo repository.ActionStepRepository,
	messageRepo repository.ChatMessageRepository,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		stepRepo:    stepRepo,
		messageRepo: messageRepo,
		now:         time.Now,
		logger:      logger,
	}
}

// HandleMessage stores the user message, builds the reply and stores it too.
// The user message is kept even when building the reply fails.
func (uc *ChatUsecase) HandleMessage(ctx context.Context, userID, text string) (*entity.ChatExchange, error) {
	userMsg, err := uc.messageRepo.CreateChatMessage(ctx, &entity.ChatMessage{
		UserID:    userID,
		Content:   text,
		Timestamp: uc.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	detection := DetectIntent(text)
	ctxzap.Info(ctx, "chat intent detected", zap.String("intent", string(detection.Intent)))

	reply, err := uc.reply(ctx, userID, detection)
	if err != nil {
		return nil, fmt.Errorf("build reply: %w", err)
	}

	botMsg, err := uc.messageRepo.CreateChatMessage(ctx, &entity.ChatMessage{
		UserID:    userID,
		Content:   reply,
		IsBot:     true,
		Timestamp: uc.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("save bot message: %w", err)
	}

	return &entity.ChatExchange{
		UserMessage: userMsg,
		BotMessage:  botMsg,
	}, nil
}

// History returns the latest messages, oldest first
func (uc *ChatUsecase) History(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	messages, err := uc.messageRepo.ListChatMessages(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return messages, nil
}

func (uc *ChatUsecase) reply(ctx context.Context, userID string, d Detection) (string, error) {
	switch d.Intent {
	case IntentShowSteps:
		return uc.showSteps(ctx, userID)
	case IntentMarkCompleted:
		return uc.markCompleted(ctx, userID, d)
	case IntentShowProgress:
		return uc.showProgress(ctx, userID)
	default:
		return helpMessage, nil
	}
}

func (uc *ChatUsecase) showSteps(ctx context.Context, userID string) (string, error) {
	steps, err := uc.stepRepo.ListIncompleteActionSteps(ctx, userID, shownStepsLimit)
	if err != nil {
		return "", fmt.Errorf("list incomplete steps: %w", err)
	}

	if len(steps) == 0 {
		return allDoneMessage, nil
	}

	var sb strings.Builder
	sb.WriteString(stepsHeader)
	for i, s := range steps {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, s.Description)
	}
	return sb.String(), nil
}

// markCompleted treats the number as a 1-based position among the incomplete
// steps ordered by order, not as a stored id
func (uc *ChatUsecase) markCompleted(ctx context.Context, userID string, d Detection) (string, error) {
	if !d.HasStepNumber {
		return askStepNumber, nil
	}

	steps, err := uc.stepRepo.ListIncompleteActionSteps(ctx, userID, 0)
	if err != nil {
		return "", fmt.Errorf("list incomplete steps: %w", err)
	}

	if d.StepNumber < 1 || d.StepNumber > len(steps) {
		return askStepNumber, nil
	}

	step := steps[d.StepNumber-1]
	step.Completed = true
	if _, err := uc.stepRepo.UpdateActionStep(ctx, step); err != nil {
		return "", fmt.Errorf("complete step: %w", err)
	}

	ctxzap.Info(ctx, "action step completed from chat", zap.Int64("step_id", step.ID))

	return fmt.Sprintf(stepCompleted, step.Description), nil
}

func (uc *ChatUsecase) showProgress(ctx context.Context, userID string) (string, error) {
	stats, err := uc.stepRepo.GetProgress(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get progress: %w", err)
	}

	if stats.Total == 0 {
		return noPlanMessage, nil
	}

	percent := int(math.RoundToEven(float64(stats.Completed) / float64(stats.Total) * 100))
	return fmt.Sprintf(progressMessage, stats.Completed, stats.Total, percent), nil
}
