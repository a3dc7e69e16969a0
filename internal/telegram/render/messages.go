package render

import (
	"fmt"
	"strings"

	"github.com/futig/resource-assistant/internal/entity"
)

const (
	MsgWelcome = `👋 Hi! I help families find support programs and keep track of their action plan.

I can:
• Ask a few questions and recommend resources near you
• Show your next steps and mark them done
• Tell you how far along your plan you are`

	MsgHelp = `🤖 Commands:

/start - Show the main menu
/intake - Find resources for your family
/steps - Show your next steps
/progress - Show your progress
/export - Download your last resource list
/cancel - Stop the current questionnaire
/help - Show this help

Outside the questionnaire you can simply write to me, for example "mark step 2 done".`

	MsgIntakeCancelled = `🛑 Questionnaire stopped. Use /intake to start again.`
	MsgNothingToCancel = `There is no questionnaire in progress. Use /intake to start one.`
	MsgNoReport        = `You don't have a resource list yet. Use /intake to get one.`
	MsgReportReady     = `📎 You can download this list:`
	MsgTextOnly        = `Please send your answer as text.`

	// Requests forwarded to the action plan chat
	RequestSteps    = "show my next steps"
	RequestProgress = "show my progress"
)

const (
	ErrGeneric        = `❌ Something went wrong. Please try again or use /start`
	ErrSessionExpired = `⌛ Your questionnaire has expired. Use /intake to start over.`
	ErrTimeout        = `❌ That took too long. Please try again.`
	ErrNetworkIssue   = `❌ Connection problem. Please try again a bit later.`
	ErrInvalidAnswer  = `🤔 %s`
	ErrUnknownCommand = `❌ Unknown command. Use /help`

	WarnRateLimit         = `⚠️ Too many requests. Please wait a moment.`
	WarnRateLimitRepeated = `🛑 You are sending messages too often. Please wait a minute.`
)

// Question formats an intake question, multi-select questions get a hint
func Question(q *entity.Question) string {
	if q == nil {
		return ""
	}
	if q.InputType == entity.InputTypeMultiSelect {
		return q.Text + "\n\nYou can pick several, separated by commas."
	}
	return q.Text
}

// BotMessage formats one part of an intake reply
func BotMessage(m entity.BotMessage) string {
	switch m.Type {
	case entity.BotMessageResources:
		return Resources(m.Title, m.Resources)
	case entity.BotMessageResourceDetail:
		var sb strings.Builder
		fmt.Fprintf(&sb, "ℹ️ %s\n\n%s", m.ResourceName, m.Text)
		if m.URL != "" {
			fmt.Fprintf(&sb, "\n\n🔗 %s", m.URL)
		}
		return sb.String()
	default:
		return m.Text
	}
}

// Resources formats a titled list of resources
func Resources(title string, resources []entity.Resource) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("📌 " + title + "\n")
	}

	for i, r := range resources {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, r.Name)
		if r.Category != "" {
			fmt.Fprintf(&sb, " (%s)", r.Category)
		}
		if r.Description != "" {
			sb.WriteString("\n" + r.Description)
		}
		if r.Eligibility != "" {
			sb.WriteString("\nWho qualifies: " + r.Eligibility)
		}
		if r.Action != "" {
			sb.WriteString("\nNext step: " + r.Action)
		}
		if r.Contact != "" {
			sb.WriteString("\nContact: " + r.Contact)
		}
		if r.URL != "" {
			sb.WriteString("\n🔗 " + r.URL)
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
