package handlers

import (
	"context"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/formatter"
)

// IntakeUsecase runs the guided questionnaire
type IntakeUsecase interface {
	Start(ctx context.Context) (*entity.StartChatResponse, error)
	Respond(ctx context.Context, sessionID, questionType string, answer entity.Answer) (*entity.RespondResponse, error)
	GetResources(ctx context.Context, sessionID string) (*entity.ResourceReport, error)
}

// ChatUsecase answers free text about the action plan
type ChatUsecase interface {
	HandleMessage(ctx context.Context, userID, text string) (*entity.ChatExchange, error)
}

// FormatterFactory renders resource reports for download
type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}

// Sender delivers bot output to a chat
type Sender interface {
	Send(chatID int64, text string, markup any) error
	SendDocument(chatID int64, filename string, data []byte) error
	SendTyping(chatID int64) error
	AnswerCallback(callbackID, text string) error
}
