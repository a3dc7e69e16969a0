package actionstep

import "github.com/futig/resource-assistant/internal/entity"

// toSummaries converts steps to the simplified view
func toSummaries(steps []*entity.ActionStep) []*entity.ActionStepSummary {
	summaries := make([]*entity.ActionStepSummary, 0, len(steps))
	for _, s := range steps {
		summaries = append(summaries, &entity.ActionStepSummary{
			ID:          s.ID,
			Description: s.Description,
			Completed:   s.Completed,
		})
	}
	return summaries
}

// orEmpty keeps list responses a JSON array even when there is nothing to show
func orEmpty(steps []*entity.ActionStep) []*entity.ActionStep {
	if steps == nil {
		return []*entity.ActionStep{}
	}
	return steps
}
