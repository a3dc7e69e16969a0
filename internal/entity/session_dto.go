package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type InputType string

const (
	InputTypeSingleChoice InputType = "single_choice"
	InputTypeMultiSelect  InputType = "multi_select"
	InputTypeText         InputType = "text"
)

// Question is the next prompt shown to the user
type Question struct {
	Type      IntakeStep `json:"type"`
	Text      string     `json:"text"`
	InputType InputType  `json:"inputType"`
	Options   []string   `json:"options,omitempty"`
}

type BotMessageType string

const (
	BotMessageText           BotMessageType = "text"
	BotMessageResources      BotMessageType = "resources"
	BotMessageResourceDetail BotMessageType = "resource_detail"
)

// BotMessage is one payload of a multi-part reply
type BotMessage struct {
	Type         BotMessageType   `json:"type"`
	Text         string           `json:"text,omitempty"`
	Title        string           `json:"title,omitempty"`
	Priority     ResourcePriority `json:"priority,omitempty"`
	Resources    []Resource       `json:"resources,omitempty"`
	ResourceName string           `json:"resourceName,omitempty"`
	URL          string           `json:"url,omitempty"`
}

// Answer is a user answer normalized to a list of strings.
// JSON strings, booleans, numbers and string arrays are accepted.
type Answer struct {
	Values []string
}

// TextAnswer wraps a plain text answer
func TextAnswer(text string) Answer {
	return Answer{Values: []string{text}}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		a.Values = nil
	case string:
		a.Values = []string{v}
	case bool:
		if v {
			a.Values = []string{"yes"}
		} else {
			a.Values = []string{"no"}
		}
	case float64:
		a.Values = []string{strconv.FormatFloat(v, 'f', -1, 64)}
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("%w: answer list must contain strings", ErrInvalidFormat)
			}
			values = append(values, s)
		}
		a.Values = values
	default:
		return fmt.Errorf("%w: unsupported answer type", ErrInvalidFormat)
	}

	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Values)
}

// Text joins all values into a single trimmed string
func (a Answer) Text() string {
	return strings.TrimSpace(strings.Join(a.Values, ", "))
}

func (a Answer) IsEmpty() bool {
	return a.Text() == ""
}

type StartChatResponse struct {
	SessionID    string    `json:"sessionId"`
	Message      string    `json:"message"`
	NextQuestion *Question `json:"nextQuestion"`
}

type RespondRequest struct {
	SessionID    string `json:"sessionId"`
	QuestionType string `json:"questionType"`
	Answer       Answer `json:"answer"`
}

// RespondResponse carries either a single message or several payloads.
// NextQuestion is null once the session is complete.
type RespondResponse struct {
	Message      string       `json:"message,omitempty"`
	Messages     []BotMessage `json:"messages,omitempty"`
	NextQuestion *Question    `json:"nextQuestion"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
