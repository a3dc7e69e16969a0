package entity

// ActionStepSummary is the simplified view for low-bandwidth clients
type ActionStepSummary struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type CreateActionStepRequest struct {
	Description string  `json:"description"`
	Details     *string `json:"details,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Order       *int    `json:"order,omitempty"`
	Difficulty  *string `json:"difficulty,omitempty"`
	FocusArea   *string `json:"focus_area,omitempty"`
}

// UpdateActionStepRequest is a partial update, nil fields are left untouched
type UpdateActionStepRequest struct {
	Description *string `json:"description,omitempty"`
	Details     *string `json:"details,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Order       *int    `json:"order,omitempty"`
	Difficulty  *string `json:"difficulty,omitempty"`
	FocusArea   *string `json:"focus_area,omitempty"`
}

type ReorderItem struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}

type ReorderActionStepsRequest struct {
	Steps []ReorderItem `json:"steps"`
}

type ReorderActionStepsResponse struct {
	Updated int `json:"updated"`
}

type GenerateActionStepsRequest struct {
	FocusArea string `json:"focus_area"`
}

type ActionStepsResponse struct {
	Steps []*ActionStep `json:"steps"`
}

// ProgressStats counts the user's steps
type ProgressStats struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}
