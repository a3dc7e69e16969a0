package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		text    string
		intent  Intent
		step    int
		hasStep bool
	}{
		{text: "what are my next steps?", intent: IntentShowSteps},
		{text: "Show me my plan", intent: IntentShowSteps},
		{text: "what should I do now", intent: IntentShowSteps},
		{text: "mark step 2 done", intent: IntentMarkCompleted, step: 2, hasStep: true},
		{text: "I finished step 3", intent: IntentMarkCompleted, step: 3, hasStep: true},
		{text: "set 10 as complete", intent: IntentMarkCompleted, step: 10, hasStep: true},
		{text: "how am I doing?", intent: IntentShowProgress},
		{text: "What's my progress", intent: IntentShowProgress},
		{text: "how far along am I", intent: IntentShowProgress},
		{text: "banana", intent: IntentUnknown},
		{text: "I have 2 kids", intent: IntentUnknown, step: 2, hasStep: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := DetectIntent(tt.text)
			assert.Equal(t, tt.intent, d.Intent)
			assert.Equal(t, tt.step, d.StepNumber)
			assert.Equal(t, tt.hasStep, d.HasStepNumber)
		})
	}
}

func TestDetectIntentRuleOrder(t *testing.T) {
	// Both show_steps and mark_completed patterns match, the earlier rule wins
	d := DetectIntent("show the steps I marked as done")
	assert.Equal(t, IntentShowSteps, d.Intent)
}
