package intake

import "github.com/futig/resource-assistant/internal/entity"

const (
	answerYes = "Yes"
	answerNo  = "No"
)

var (
	NeedOptions = []string{
		"Food",
		"Housing",
		"Healthcare",
		"Childcare",
		"Education",
		"Employment",
		"Transportation",
		"Utilities",
		"Legal Aid",
		"Mental Health",
	}

	HouseholdSizeOptions = []string{"1", "2", "3-4", "5-6", "7 or more"}

	IncomeOptions = []string{
		"Under $15,000",
		"$15,000 - $30,000",
		"$30,000 - $50,000",
		"$50,000 - $75,000",
		"Over $75,000",
	}
)

const (
	welcomeMessage = "Hi! I'm here to help your family find support resources. " +
		"I'll ask a few quick questions to understand your situation."

	emergencyText     = "Are you currently facing an emergency, such as having no food, no safe place to stay, or being in immediate danger?"
	zipCodeText       = "What is your ZIP code?"
	needsText         = "What kind of help are you looking for? Select all that apply."
	householdSizeText = "How many people live in your household?"
	incomeText        = "What is your household's approximate annual income?"
	moreInfoText      = "Would you like more information about any of these resources?"
	resourceText      = "Which resource would you like to know more about?"
)

const (
	emergencyAck       = "I'm sorry you're going through this. I'll make sure to include emergency help."
	nonEmergencyAck    = "Thank you."
	zipCodeAck         = "Thanks, I'll look for programs near %s."
	needsAck           = "Got it."
	householdSizeAck   = "Thank you."
	resourcesFound     = "Based on your answers, here are resources that may help your family."
	resourcesMissing   = "I'm sorry, I couldn't find resources for you right now. You can call 211 to reach local help at any time."
	noResourcesToShow  = "I'm sorry, there are no resources to tell you more about. You can call 211 to reach local help at any time."
	unknownResource    = "I couldn't find that resource. Please choose one from the list."
	detailUnavailable  = "I couldn't load more details about %s right now. You can find more information at %s"
	goodbyeMessage     = "Thank you for using the resource assistant. Good luck, and come back any time!"
	completeAfterEmpty = "Feel free to start over whenever you're ready."
)

var bucketTitles = map[entity.ResourcePriority]string{
	entity.PriorityEmergency:  "Emergency Resources",
	entity.PriorityPrimary:    "Recommended Resources",
	entity.PriorityAdditional: "Additional Resources",
}

// BucketTitle returns the display title for a priority bucket
func BucketTitle(priority entity.ResourcePriority) string {
	return bucketTitles[entity.NormalizePriority(priority)]
}

func yesNoQuestion(step entity.IntakeStep, text string) *entity.Question {
	return &entity.Question{
		Type:      step,
		Text:      text,
		InputType: entity.InputTypeSingleChoice,
		Options:   []string{answerYes, answerNo},
	}
}

// questionFor builds the question asked while the session waits in step
func questionFor(session *entity.Session) *entity.Question {
	switch session.CurrentStep {
	case entity.IntakeStepEmergency:
		return yesNoQuestion(entity.IntakeStepEmergency, emergencyText)
	case entity.IntakeStepZipCode:
		return &entity.Question{
			Type:      entity.IntakeStepZipCode,
			Text:      zipCodeText,
			InputType: entity.InputTypeText,
		}
	case entity.IntakeStepNeeds:
		return &entity.Question{
			Type:      entity.IntakeStepNeeds,
			Text:      needsText,
			InputType: entity.InputTypeMultiSelect,
			Options:   NeedOptions,
		}
	case entity.IntakeStepHouseholdSize:
		return &entity.Question{
			Type:      entity.IntakeStepHouseholdSize,
			Text:      householdSizeText,
			InputType: entity.InputTypeSingleChoice,
			Options:   HouseholdSizeOptions,
		}
	case entity.IntakeStepIncome:
		return &entity.Question{
			Type:      entity.IntakeStepIncome,
			Text:      incomeText,
			InputType: entity.InputTypeSingleChoice,
			Options:   IncomeOptions,
		}
	case entity.IntakeStepMoreInfo:
		return yesNoQuestion(entity.IntakeStepMoreInfo, moreInfoText)
	case entity.IntakeStepResourceDetail:
		names := make([]string, 0, len(session.AllResources))
		for _, r := range session.AllResources {
			names = append(names, r.Name)
		}
		return &entity.Question{
			Type:      entity.IntakeStepResourceDetail,
			Text:      resourceText,
			InputType: entity.InputTypeSingleChoice,
			Options:   names,
		}
	default:
		return nil
	}
}
