package entity

import (
	"slices"
	"time"
)

type IntakeStep string

// Intake step is the question the session is currently waiting an answer for
const (
	IntakeStepInitial IntakeStep = "initial" // Session created, greeting not sent yet

	// Questionnaire
	IntakeStepEmergency     IntakeStep = "emergency"      // Is the family in an emergency right now
	IntakeStepZipCode       IntakeStep = "zip_code"       // Location used for local programs
	IntakeStepNeeds         IntakeStep = "needs"          // Areas the family needs help with
	IntakeStepHouseholdSize IntakeStep = "household_size" // Household size bucket
	IntakeStepIncome        IntakeStep = "income"         // Income bucket, triggers resource generation

	// Follow-up loop
	IntakeStepMoreInfo       IntakeStep = "more_info"       // Ask whether the user wants details
	IntakeStepResourceDetail IntakeStep = "resource_detail" // Pick a resource to describe

	// Final state
	IntakeStepComplete IntakeStep = "complete"
)

type ResourcePriority string

const (
	PriorityEmergency  ResourcePriority = "emergency"
	PriorityPrimary    ResourcePriority = "primary"
	PriorityAdditional ResourcePriority = "additional"
)

// NormalizePriority maps empty or unknown priorities to additional.
func NormalizePriority(p ResourcePriority) ResourcePriority {
	switch p {
	case PriorityEmergency, PriorityPrimary, PriorityAdditional:
		return p
	default:
		return PriorityAdditional
	}
}

// Resource is a single support program recommended to the family
type Resource struct {
	Category    string           `json:"category"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Eligibility string           `json:"eligibility"`
	Action      string           `json:"action"`
	URL         string           `json:"url"`
	Contact     string           `json:"contact,omitempty"`
	Hours       string           `json:"hours,omitempty"`
	Priority    ResourcePriority `json:"priority,omitempty"`
}

// ResourceBuckets holds generated resources split by priority, source order kept
type ResourceBuckets struct {
	Emergency  []Resource `json:"emergency"`
	Primary    []Resource `json:"primary"`
	Additional []Resource `json:"additional"`
}

// UserInfo holds the answers collected during intake
type UserInfo struct {
	Emergency     *bool    `json:"emergency,omitempty"`
	ZipCode       string   `json:"zip_code,omitempty"`
	Needs         []string `json:"needs,omitempty"`
	HouseholdSize string   `json:"household_size,omitempty"`
	Income        string   `json:"income,omitempty"`
}

// Session is an intake conversation. It lives only in the session store.
type Session struct {
	ID           string
	UserInfo     UserInfo
	CurrentStep  IntakeStep
	AllResources []Resource
	Buckets      ResourceBuckets
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a deep copy so callers can mutate it without touching the stored value.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	c := *s
	if s.UserInfo.Emergency != nil {
		v := *s.UserInfo.Emergency
		c.UserInfo.Emergency = &v
	}
	c.UserInfo.Needs = slices.Clone(s.UserInfo.Needs)
	c.AllResources = slices.Clone(s.AllResources)
	c.Buckets = ResourceBuckets{
		Emergency:  slices.Clone(s.Buckets.Emergency),
		Primary:    slices.Clone(s.Buckets.Primary),
		Additional: slices.Clone(s.Buckets.Additional),
	}

	return &c
}

const (
	DefaultStepOrder  = 999
	DefaultDifficulty = "medium"
)

// ActionStep is a to-do item in the user's action plan
type ActionStep struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Details     string    `json:"details,omitempty"`
	Completed   bool      `json:"completed"`
	Order       int       `json:"order"`
	Difficulty  string    `json:"difficulty"`
	FocusArea   string    `json:"focus_area,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatMessage is one line of the intent chat history
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	IsBot     bool      `json:"is_bot"`
	Timestamp time.Time `json:"timestamp"`
}
