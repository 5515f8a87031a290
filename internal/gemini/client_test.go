package gemini

import (
	"context"
	"testing"

	"google.golang.org/genai"

	"github.com/minhtrung1997/automatic-bible-diary/core/diary"
)

func TestNewClientRejectsMissingConfig(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "gemini-1.5-flash"); err == nil {
		t.Error("NewClient accepted an empty API key")
	}
	if _, err := NewClient(context.Background(), "key", ""); err == nil {
		t.Error("NewClient accepted an empty model name")
	}
}

func TestMapFinishReason(t *testing.T) {
	tests := []struct {
		in   genai.FinishReason
		want diary.FinishReason
	}{
		{genai.FinishReasonStop, diary.FinishStop},
		{genai.FinishReasonMaxTokens, diary.FinishMaxTokens},
		{genai.FinishReasonSafety, diary.FinishSafety},
		{genai.FinishReasonRecitation, diary.FinishSafety},
		{genai.FinishReasonProhibitedContent, diary.FinishSafety},
		{genai.FinishReasonUnspecified, diary.FinishOther},
		{genai.FinishReasonOther, diary.FinishOther},
	}
	for _, tt := range tests {
		if got := mapFinishReason(tt.in); got != tt.want {
			t.Errorf("mapFinishReason(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToResponse(t *testing.T) {
	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				FinishReason: genai.FinishReasonStop,
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "first part"},
						{Text: ""},
						{Text: "second part"},
					},
				},
			},
			{FinishReason: genai.FinishReasonMaxTokens},
		},
	}

	got := toResponse(res)
	if len(got.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got.Candidates))
	}
	if got.Candidates[0].FinishReason != diary.FinishStop {
		t.Errorf("first candidate finish = %v, want stop", got.Candidates[0].FinishReason)
	}
	if len(got.Candidates[0].Parts) != 2 {
		t.Errorf("empty part not dropped: %v", got.Candidates[0].Parts)
	}
	if got.Candidates[1].FinishReason != diary.FinishMaxTokens {
		t.Errorf("second candidate finish = %v, want max tokens", got.Candidates[1].FinishReason)
	}
	if got.BlockReason != "" {
		t.Errorf("unexpected block reason %q", got.BlockReason)
	}
}

func TestToResponsePromptBlocked(t *testing.T) {
	res := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason: genai.BlockedReasonSafety,
		},
	}
	got := toResponse(res)
	if got.BlockReason == "" {
		t.Error("prompt-level block reason lost")
	}
}
