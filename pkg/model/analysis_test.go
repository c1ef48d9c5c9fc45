package model

import "testing"

func TestAnalysisRequest_Normalize_Defaults(t *testing.T) {
	req := AnalysisRequest{FileID: "f1", EnableAIFeedback: true}
	req.Normalize()

	if req.OpenAIModel != DefaultOpenAIModel {
		t.Errorf("expected default model %q, got %q", DefaultOpenAIModel, req.OpenAIModel)
	}
	if req.MaxTokens != DefaultMaxTokens {
		t.Errorf("expected default max tokens %d, got %d", DefaultMaxTokens, req.MaxTokens)
	}
}

func TestAnalysisRequest_Normalize_KeepsCallerValues(t *testing.T) {
	req := AnalysisRequest{
		FileID:           "f1",
		EnableAIFeedback: true,
		OpenAIModel:      "gpt-4",
		MaxTokens:        500,
	}
	req.Normalize()

	if req.OpenAIModel != "gpt-4" {
		t.Errorf("caller's model overwritten: %q", req.OpenAIModel)
	}
	if req.MaxTokens != 500 {
		t.Errorf("caller's max_tokens overwritten: %d", req.MaxTokens)
	}
}

func TestAnalysisRequest_Normalize_DisabledFeedback(t *testing.T) {
	req := AnalysisRequest{FileID: "f1"}
	req.Normalize()

	if req.OpenAIModel != "" || req.MaxTokens != 0 {
		t.Errorf("defaults must not apply with feedback disabled: %+v", req)
	}
}
