package actionstep

type stepTemplate struct {
	description string
	details     string
	difficulty  string
}

// FocusAreas lists the areas a plan can be generated for
var FocusAreas = []string{"schools", "community", "resources"}

var templates = map[string][]stepTemplate{
	"schools": {
		{
			description: "Research local school performance metrics",
			details:     "Gather data on academic performance, graduation rates, and student engagement",
			difficulty:  "medium",
		},
		{
			description: "Schedule meetings with school administrators",
			details:     "Discuss current challenges and potential improvements",
			difficulty:  "easy",
		},
		{
			description: "Identify key areas for improvement",
			details:     "Based on data and discussions, prioritize areas that need attention",
			difficulty:  "hard",
		},
	},
	"community": {
		{
			description: "Map existing community programs",
			details:     "Create a comprehensive list of current educational programs",
			difficulty:  "medium",
		},
		{
			description: "Identify program gaps",
			details:     "Analyze where new programs might be needed",
			difficulty:  "medium",
		},
		{
			description: "Connect with community leaders",
			details:     "Build relationships with key stakeholders",
			difficulty:  "easy",
		},
	},
	"resources": {
		{
			description: "Create inventory of available resources",
			details:     "Document current educational resources and their utilization",
			difficulty:  "easy",
		},
		{
			description: "Identify resource needs",
			details:     "Determine what additional resources would be most beneficial",
			difficulty:  "medium",
		},
		{
			description: "Develop resource sharing plan",
			details:     "Create strategy for optimal resource distribution",
			difficulty:  "hard",
		},
	},
}
