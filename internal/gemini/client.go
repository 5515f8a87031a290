// Package gemini adapts the Google Gemini API to the diary.Backend interface.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/minhtrung1997/automatic-bible-diary/core/diary"
	"github.com/minhtrung1997/automatic-bible-diary/internal/logging"
)

// Client is a diary.Backend backed by the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini-backed generation client for the given model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	logging.Debug("gemini client ready", "model", model)
	return &Client{client: client, model: model}, nil
}

// Generate implements diary.Backend. Transport failures surface as errors;
// the pipeline owns their classification.
func (c *Client) Generate(ctx context.Context, req diary.Request) (diary.Response, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxOutputTokens,
	}
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return diary.Response{}, fmt.Errorf("gemini generate content: %w", err)
	}
	return toResponse(res), nil
}

// toResponse flattens the Gemini response into the backend-neutral shape the
// pipeline classifies.
func toResponse(res *genai.GenerateContentResponse) diary.Response {
	var out diary.Response
	if fb := res.PromptFeedback; fb != nil &&
		fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		out.BlockReason = string(fb.BlockReason)
	}
	for _, cand := range res.Candidates {
		if cand == nil {
			continue
		}
		dc := diary.Candidate{FinishReason: mapFinishReason(cand.FinishReason)}
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if part != nil && part.Text != "" {
					dc.Parts = append(dc.Parts, part.Text)
				}
			}
		}
		out.Candidates = append(out.Candidates, dc)
	}
	return out
}

func mapFinishReason(fr genai.FinishReason) diary.FinishReason {
	switch fr {
	case genai.FinishReasonStop:
		return diary.FinishStop
	case genai.FinishReasonMaxTokens:
		return diary.FinishMaxTokens
	case genai.FinishReasonSafety,
		genai.FinishReasonRecitation,
		genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent,
		genai.FinishReasonSPII:
		return diary.FinishSafety
	default:
		return diary.FinishOther
	}
}
