package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/resource-assistant/internal/entity"
)

const (
	MaxDescriptionLength = 500
	MaxMessageLength     = 8000
)

var AllowedDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// Validator checks request payloads before they reach the usecases
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func requireText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", entity.ErrMissingField, field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%w: %s is longer than %d characters", entity.ErrInvalidFormat, field, maxLen)
	}
	return nil
}
