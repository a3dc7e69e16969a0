package validator

import (
	"fmt"

	"github.com/futig/resource-assistant/internal/entity"
)

func (v *Validator) ValidateCreateActionStep(req *entity.CreateActionStepRequest) error {
	if err := requireText("description", req.Description, MaxDescriptionLength); err != nil {
		return err
	}

	if req.Difficulty != nil && !AllowedDifficulties[*req.Difficulty] {
		return fmt.Errorf("%w: difficulty must be easy, medium or hard", entity.ErrInvalidFormat)
	}

	return nil
}

func (v *Validator) ValidateUpdateActionStep(req *entity.UpdateActionStepRequest) error {
	if req.Description != nil {
		if err := requireText("description", *req.Description, MaxDescriptionLength); err != nil {
			return err
		}
	}

	if req.Difficulty != nil && !AllowedDifficulties[*req.Difficulty] {
		return fmt.Errorf("%w: difficulty must be easy, medium or hard", entity.ErrInvalidFormat)
	}

	return nil
}

func (v *Validator) ValidateReorder(req *entity.ReorderActionStepsRequest) error {
	if req.Steps == nil {
		return fmt.Errorf("%w: steps", entity.ErrMissingField)
	}
	return nil
}

func (v *Validator) ValidateGenerate(req *entity.GenerateActionStepsRequest) error {
	if req.FocusArea == "" {
		return fmt.Errorf("%w: focus_area", entity.ErrMissingField)
	}
	return nil
}
