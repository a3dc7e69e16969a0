package intake

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
)

type IntakeUsecase interface {
	Start(ctx context.Context) (*entity.StartChatResponse, error)
	Respond(ctx context.Context, sessionID, questionType string, answer entity.Answer) (*entity.RespondResponse, error)
	GetResources(ctx context.Context, sessionID string) (*entity.ResourceReport, error)
}
