package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns canned completions for local runs and tests
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting completion", zap.String("kind", string(req.Kind)))

	switch req.Kind {
	case entity.PromptKindDetail:
		return "This program helps families cover basic needs. Call ahead to confirm your eligibility, " +
			"bring a photo ID and proof of address, and ask whether an appointment is required.", nil
	case entity.PromptKindRecommend:
		return encodeMockResources(mockResources[:6])
	default:
		return encodeMockResources(mockResources)
	}
}

func encodeMockResources(resources []entity.Resource) (string, error) {
	data, err := json.Marshal(resources)
	if err != nil {
		return "", fmt.Errorf("marshal mock resources: %w", err)
	}
	return "```json\n" + string(data) + "\n```", nil
}

var mockResources = []entity.Resource{
	{
		Category:    "Food",
		Name:        "Community Food Bank",
		Description: "Free groceries distributed weekly to local families.",
		Eligibility: "Residents with household income under 200% of the poverty line",
		Action:      "Visit during distribution hours with proof of address",
		URL:         "https://www.feedingamerica.org/find-your-local-foodbank",
		Hours:       "Mon-Fri 9am-5pm",
		Priority:    entity.PriorityEmergency,
	},
	{
		Category:    "Housing",
		Name:        "Emergency Shelter Hotline",
		Description: "24/7 referrals to emergency shelter beds.",
		Eligibility: "Anyone facing homelessness tonight",
		Action:      "Call 211 and ask for shelter placement",
		URL:         "https://www.211.org",
		Contact:     "211",
		Priority:    entity.PriorityEmergency,
	},
	{
		Category:    "Food",
		Name:        "SNAP",
		Description: "Monthly benefits for buying groceries.",
		Eligibility: "Low-income households meeting state limits",
		Action:      "Apply online through your state benefits portal",
		URL:         "https://www.fns.usda.gov/snap",
		Priority:    entity.PriorityPrimary,
	},
	{
		Category:    "Healthcare",
		Name:        "Medicaid",
		Description: "Free or low-cost health coverage.",
		Eligibility: "Low-income adults, children, and pregnant women",
		Action:      "Apply through the health insurance marketplace",
		URL:         "https://www.medicaid.gov",
		Priority:    entity.PriorityPrimary,
	},
	{
		Category:    "Childcare",
		Name:        "Head Start",
		Description: "Early education and care for children up to age five.",
		Eligibility: "Families at or below the poverty line",
		Action:      "Use the locator to contact a nearby center",
		URL:         "https://eclkc.ohs.acf.hhs.gov/center-locator",
		Priority:    entity.PriorityPrimary,
	},
	{
		Category:    "Utilities",
		Name:        "LIHEAP",
		Description: "Help paying heating and cooling bills.",
		Eligibility: "Households meeting income guidelines",
		Action:      "Contact your local energy assistance office",
		URL:         "https://www.acf.hhs.gov/ocs/programs/liheap",
		Priority:    entity.PriorityPrimary,
	},
	{
		Category:    "Food",
		Name:        "WIC",
		Description: "Nutrition support for mothers and young children.",
		Eligibility: "Pregnant women and children under five with low income",
		Action:      "Schedule an appointment at a WIC clinic",
		URL:         "https://www.fns.usda.gov/wic",
		Priority:    entity.PriorityPrimary,
	},
	{
		Category:    "Education",
		Name:        "Adult Education Center",
		Description: "GED preparation and English classes.",
		Eligibility: "Adults 18 and older",
		Action:      "Register for the next enrollment session",
		URL:         "https://www.ged.com",
		Priority:    entity.PriorityAdditional,
	},
	{
		Category:    "Employment",
		Name:        "American Job Center",
		Description: "Job search help, training, and career counseling.",
		Eligibility: "Open to all job seekers",
		Action:      "Visit a center or browse listings online",
		URL:         "https://www.careeronestop.org",
		Priority:    entity.PriorityAdditional,
	},
	{
		Category:    "Transportation",
		Name:        "Reduced Fare Transit Program",
		Description: "Discounted public transit passes.",
		Eligibility: "Riders enrolled in public benefit programs",
		Action:      "Apply at the transit customer service office",
		URL:         "transit-discounts",
		Priority:    entity.PriorityAdditional,
	},
	{
		Category:    "Legal Aid",
		Name:        "Legal Services Corporation",
		Description: "Free civil legal help for low-income families.",
		Eligibility: "Households under 125% of the poverty line",
		Action:      "Find a local legal aid office online",
		URL:         "https://www.lsc.gov/about-lsc/what-legal-aid/get-legal-help",
		Priority:    entity.PriorityAdditional,
	},
	{
		Category:    "Mental Health",
		Name:        "988 Suicide and Crisis Lifeline",
		Description: "Free, confidential support at any hour.",
		Eligibility: "Anyone in emotional distress",
		Action:      "Call or text 988",
		URL:         "https://988lifeline.org",
		Contact:     "988",
		Priority:    entity.PriorityAdditional,
	},
}
