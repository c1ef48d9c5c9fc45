package model

const (
	// DefaultOpenAIModel is used when a request enables AI feedback
	// without naming a model.
	DefaultOpenAIModel = "gpt-3.5-turbo"
	// DefaultMaxTokens bounds AI feedback generation when unset.
	DefaultMaxTokens = 1200
)

// AnalysisRequest is the parameter set forwarded to the analysis-start
// endpoint. The struct is the whitelist: fields not declared here are
// never sent, whatever a caller may have collected from its own input.
type AnalysisRequest struct {
	FileID           string `json:"file_id"`
	SampleSize       int    `json:"sample_size,omitempty"`
	AnalysisMode     string `json:"analysis_mode,omitempty"`
	EnableAIFeedback bool   `json:"enable_ai_feedback,omitempty"`
	OpenAIAPIKey     string `json:"openai_api_key,omitempty"`
	OpenAIModel      string `json:"openai_model,omitempty"`
	MaxTokens        int    `json:"max_tokens,omitempty"`
}

// Normalize fills in the AI-feedback defaults for fields the caller left
// unset. Only applied when AI feedback is enabled; a disabled request is
// forwarded without model settings at all.
func (r *AnalysisRequest) Normalize() {
	if !r.EnableAIFeedback {
		return
	}
	if r.OpenAIModel == "" {
		r.OpenAIModel = DefaultOpenAIModel
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
}
