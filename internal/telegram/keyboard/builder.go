package keyboard

import (
	"github.com/futig/resource-assistant/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback actions and values
const (
	ActionMenu     = "action"
	ActionDownload = "dl"

	ValueIntake   = "intake"
	ValueSteps    = "steps"
	ValueProgress = "progress"
)

const optionsPerRow = 2

// Builder creates inline and reply keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// MenuKeyboard shows the main actions under the welcome message
func (b *Builder) MenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔎 Find resources", EncodeCallback(ActionMenu, ValueIntake)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 My next steps", EncodeCallback(ActionMenu, ValueSteps)),
			tgbotapi.NewInlineKeyboardButtonData("📈 My progress", EncodeCallback(ActionMenu, ValueProgress)),
		),
	)
}

// QuestionKeyboard turns the options of an intake question into reply buttons.
// Free text questions remove any keyboard left from the previous question.
func (b *Builder) QuestionKeyboard(q *entity.Question) any {
	if q == nil || len(q.Options) == 0 {
		return tgbotapi.NewRemoveKeyboard(true)
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, (len(q.Options)+optionsPerRow-1)/optionsPerRow)
	for i := 0; i < len(q.Options); i += optionsPerRow {
		end := min(i+optionsPerRow, len(q.Options))
		row := make([]tgbotapi.KeyboardButton, 0, optionsPerRow)
		for _, opt := range q.Options[i:end] {
			row = append(row, tgbotapi.NewKeyboardButton(opt))
		}
		rows = append(rows, row)
	}

	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.OneTimeKeyboard = q.InputType != entity.InputTypeMultiSelect
	markup.ResizeKeyboard = true
	return markup
}

// RemoveKeyboard hides the reply keyboard
func (b *Builder) RemoveKeyboard() tgbotapi.ReplyKeyboardRemove {
	return tgbotapi.NewRemoveKeyboard(true)
}

// DownloadKeyboard offers the resource report as a document
func (b *Builder) DownloadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📕 Download .pdf", EncodeCallback(ActionDownload, string(entity.FormatPDF))),
			tgbotapi.NewInlineKeyboardButtonData("📄 Download .md", EncodeCallback(ActionDownload, string(entity.FormatMarkdown))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Download .docx", EncodeCallback(ActionDownload, string(entity.FormatDOCX))),
		),
	)
}
