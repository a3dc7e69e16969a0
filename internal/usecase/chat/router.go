package chat

import (
	"regexp"
	"strconv"
)

type Intent string

const (
	IntentShowSteps     Intent = "show_steps"
	IntentMarkCompleted Intent = "mark_completed"
	IntentShowProgress  Intent = "show_progress"
	IntentUnknown       Intent = "unknown"
)

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// intentRules is evaluated top to bottom, the first matching pattern wins
var intentRules = []intentRule{
	{
		intent: IntentShowSteps,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(show|list|see|view)\b.*\b(steps?|plan|tasks?)\b`),
			regexp.MustCompile(`(?i)\bnext steps?\b`),
			regexp.MustCompile(`(?i)what (should|do) i do`),
		},
	},
	{
		intent: IntentMarkCompleted,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(mark|set)\b.*\b(done|complete|completed|finished)\b`),
			regexp.MustCompile(`(?i)\b(completed|finished|done with)\b.*\bstep\b`),
			regexp.MustCompile(`(?i)\bi (did|finished|completed)\b`),
		},
	},
	{
		intent: IntentShowProgress,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bprogress\b`),
			regexp.MustCompile(`(?i)how (am i|are we) doing`),
			regexp.MustCompile(`(?i)how far`),
		},
	},
}

var numberRe = regexp.MustCompile(`\d+`)

// Detection is the classified intent of a message
type Detection struct {
	Intent        Intent
	StepNumber    int
	HasStepNumber bool
}

// DetectIntent classifies free text and extracts the first integer in it
func DetectIntent(text string) Detection {
	d := Detection{Intent: IntentUnknown}

	for _, rule := range intentRules {
		if matchesAny(rule.patterns, text) {
			d.Intent = rule.intent
			break
		}
	}

	if m := numberRe.FindString(text); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			d.StepNumber = n
			d.HasStepNumber = true
		}
	}

	return d
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
