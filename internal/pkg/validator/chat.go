package validator

import (
	"fmt"

	"github.com/futig/resource-assistant/internal/entity"
)

func (v *Validator) ValidateRespond(req *entity.RespondRequest) error {
	if req.SessionID == "" {
		return fmt.Errorf("%w: sessionId", entity.ErrMissingField)
	}
	if req.Answer.IsEmpty() {
		return fmt.Errorf("%w: answer", entity.ErrMissingField)
	}
	return nil
}

func (v *Validator) ValidateMessage(message string) error {
	return requireText("message", message, MaxMessageLength)
}

func (v *Validator) ValidateRecommend(req *entity.RecommendRequest) error {
	if req.ZipCode == "" {
		return fmt.Errorf("%w: zipCode", entity.ErrMissingField)
	}
	if req.IncomeRange == "" {
		return fmt.Errorf("%w: incomeRange", entity.ErrMissingField)
	}
	if req.EducationLevel == "" {
		return fmt.Errorf("%w: educationLevel", entity.ErrMissingField)
	}
	return nil
}
