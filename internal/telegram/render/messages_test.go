package render

import (
	"testing"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestQuestion(t *testing.T) {
	assert.Equal(t, "", Question(nil))
	assert.Equal(t, "ZIP?", Question(&entity.Question{Text: "ZIP?", InputType: entity.InputTypeText}))
	assert.Contains(t, Question(&entity.Question{Text: "Needs?", InputType: entity.InputTypeMultiSelect}), "separated by commas")
}

func TestBotMessage(t *testing.T) {
	text := BotMessage(entity.BotMessage{Type: entity.BotMessageText, Text: "hello"})
	assert.Equal(t, "hello", text)

	list := BotMessage(entity.BotMessage{
		Type:  entity.BotMessageResources,
		Title: "Emergency Resources",
		Resources: []entity.Resource{
			{Name: "Food Bank", Category: "Food", Eligibility: "Anyone", URL: "https://food.example"},
			{Name: "Shelter"},
		},
	})
	assert.Equal(t, "📌 Emergency Resources\n"+
		"\n1. Food Bank (Food)\nWho qualifies: Anyone\n🔗 https://food.example\n"+
		"\n2. Shelter", list)

	detail := BotMessage(entity.BotMessage{
		Type:         entity.BotMessageResourceDetail,
		ResourceName: "WIC",
		Text:         "Nutrition help",
		URL:          "https://wic.example",
	})
	assert.Equal(t, "ℹ️ WIC\n\nNutrition help\n\n🔗 https://wic.example", detail)
}
