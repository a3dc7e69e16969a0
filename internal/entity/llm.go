package entity

type PromptKind string

const (
	PromptKindBulk      PromptKind = "bulk"
	PromptKindDetail    PromptKind = "detail"
	PromptKindRecommend PromptKind = "recommend"
)

// CompletionRequest is a single prompt sent to the completion service
type CompletionRequest struct {
	Kind         PromptKind
	SystemPrompt string
	Prompt       string
}

// LLMCompletionRequest is the body accepted by the completion gateway
type LLMCompletionRequest struct {
	SystemPrompt string `json:"system_prompt"`
	Prompt       string `json:"prompt"`
	Kind         string `json:"kind,omitempty"`
}

type LLMCompletionResponse struct {
	Result string `json:"result"`
}

type GenerationStatus string

const (
	GenerationSuccess       GenerationStatus = "success"
	GenerationMalformed     GenerationStatus = "malformed"
	GenerationUpstreamError GenerationStatus = "upstream_error"
)

// GenerationResult tags the outcome of a bulk generation so callers
// can tell "no resources" apart from a failure
type GenerationResult struct {
	Status    GenerationStatus
	Resources []Resource
	Err       error
}

func (r GenerationResult) OK() bool {
	return r.Status == GenerationSuccess
}
