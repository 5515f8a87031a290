package diary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minhtrung1997/automatic-bible-diary/internal/logging"
)

// Terminal pipeline failures. Neither is retried further; the caller decides
// whether to skip the cycle.
var (
	// ErrGenerationBlocked indicates the backend refused for policy reasons.
	ErrGenerationBlocked = errors.New("generation blocked")
	// ErrGenerationExhausted indicates no attempt produced usable text.
	ErrGenerationExhausted = errors.New("generation attempts exhausted")
)

// FinishReason is the backend's signal for why a candidate stopped.
type FinishReason int

const (
	// FinishStop means the candidate completed normally.
	FinishStop FinishReason = iota
	// FinishMaxTokens means the candidate hit the output token budget.
	FinishMaxTokens
	// FinishSafety means the candidate was cut by a safety or policy filter.
	FinishSafety
	// FinishOther covers every remaining backend-specific status.
	FinishOther
)

// Request is one generation call.
type Request struct {
	Prompt          string
	Temperature     float32
	MaxOutputTokens int32
}

// Candidate is one backend completion candidate: its finish status and its
// text fragments in order.
type Candidate struct {
	FinishReason FinishReason
	Parts        []string
}

// Response is the backend's answer to a single request. BlockReason is set
// when the prompt itself was refused before any candidate was produced.
type Response struct {
	Candidates  []Candidate
	BlockReason string
}

// Backend is a request/response text-generation API. Implementations must be
// safe for sequential reuse; the pipeline never calls Generate concurrently.
type Backend interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// OutcomeKind classifies one attempt's result.
type OutcomeKind int

const (
	// OutcomeSuccess is usable merged text.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeTruncated means the output hit the token budget.
	OutcomeTruncated
	// OutcomeBlocked means a safety/policy filter refused.
	OutcomeBlocked
	// OutcomeEmpty means the backend returned no text at all.
	OutcomeEmpty
	// OutcomeTransportError means the call itself failed. It escalates like
	// OutcomeEmpty but is logged distinctly.
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTruncated:
		return "truncated"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeEmpty:
		return "empty"
	case OutcomeTransportError:
		return "transport_error"
	}
	return "unknown"
}

// Outcome is one attempt's classified result. Text holds merged text for
// OutcomeSuccess and any partial text for OutcomeTruncated.
type Outcome struct {
	Kind   OutcomeKind
	Text   string
	Reason string
}

// PipelineConfig tunes the retry schedule. All values come from external
// configuration; nothing here is hard-coded into the pipeline.
type PipelineConfig struct {
	// InitialTemperature and InitialMaxTokens apply to the first attempt.
	InitialTemperature float32
	InitialMaxTokens   int32
	// RetryTemperature applies to the second and third attempt and must be
	// lower than InitialTemperature.
	RetryTemperature float32
	// MaxTokensCeiling caps the doubled retry budget.
	MaxTokensCeiling int32
	// ShortenPrefix/ShortenSuffix are the rune counts kept from the front and
	// the back of an oversized prompt on the third attempt. The suffix is
	// assumed to carry the task instructions.
	ShortenPrefix int
	ShortenSuffix int
}

// Validate checks the schedule for configuration errors.
func (c PipelineConfig) Validate() error {
	if c.InitialMaxTokens < 1 {
		return fmt.Errorf("initial max tokens must be positive, got %d", c.InitialMaxTokens)
	}
	if c.MaxTokensCeiling < c.InitialMaxTokens {
		return fmt.Errorf("max tokens ceiling %d below initial budget %d", c.MaxTokensCeiling, c.InitialMaxTokens)
	}
	if c.RetryTemperature >= c.InitialTemperature {
		return fmt.Errorf("retry temperature %g must be below initial temperature %g", c.RetryTemperature, c.InitialTemperature)
	}
	if c.ShortenPrefix < 1 || c.ShortenSuffix < 1 {
		return fmt.Errorf("shorten prefix/suffix must be positive, got %d/%d", c.ShortenPrefix, c.ShortenSuffix)
	}
	return nil
}

// Pipeline drives a Backend through at most three sequential attempts:
// the configured initial call, a doubled-budget lower-temperature retry on
// any failure, and a shortened-prompt retry when the second attempt is still
// truncated.
type Pipeline struct {
	backend Backend
	cfg     PipelineConfig
}

// NewPipeline validates the config and builds a pipeline over the backend.
func NewPipeline(backend Backend, cfg PipelineConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	return &Pipeline{backend: backend, cfg: cfg}, nil
}

// Run executes the prompt against the backend and returns the merged text of
// the first successful attempt. After the schedule is spent it reports
// ErrGenerationBlocked when the final failure was a policy block, otherwise
// ErrGenerationExhausted.
func (p *Pipeline) Run(ctx context.Context, prompt string) (string, error) {
	out := p.attempt(ctx, 1, prompt, p.cfg.InitialTemperature, p.cfg.InitialMaxTokens)
	if out.Kind == OutcomeSuccess {
		return out.Text, nil
	}

	retryBudget := min(2*p.cfg.InitialMaxTokens, p.cfg.MaxTokensCeiling)
	out = p.attempt(ctx, 2, prompt, p.cfg.RetryTemperature, retryBudget)
	if out.Kind == OutcomeSuccess {
		return out.Text, nil
	}

	if out.Kind == OutcomeTruncated {
		shortened := shortenPrompt(prompt, p.cfg.ShortenPrefix, p.cfg.ShortenSuffix)
		out = p.attempt(ctx, 3, shortened, p.cfg.RetryTemperature, retryBudget)
		if out.Kind == OutcomeSuccess {
			return out.Text, nil
		}
	}

	if out.Kind == OutcomeBlocked {
		return "", fmt.Errorf("%w: %s", ErrGenerationBlocked, out.Reason)
	}
	return "", fmt.Errorf("%w: last outcome %s", ErrGenerationExhausted, out.Kind)
}

func (p *Pipeline) attempt(ctx context.Context, stage int, prompt string, temperature float32, maxTokens int32) Outcome {
	resp, err := p.backend.Generate(ctx, Request{
		Prompt:          prompt,
		Temperature:     temperature,
		MaxOutputTokens: maxTokens,
	})

	var out Outcome
	if err != nil {
		// Transport failures escalate like empty responses but keep their own
		// diagnostic trail.
		logging.ErrorContext(ctx, "generation transport error", "stage", stage, "error", err)
		out = Outcome{Kind: OutcomeTransportError, Reason: err.Error()}
	} else {
		out = classify(resp)
	}

	logging.GenerationAttempt(ctx, stage, temperature, maxTokens, out.Kind.String(),
		"prompt_runes", len([]rune(prompt)))
	return out
}

// classify maps a backend response onto the outcome taxonomy by inspecting
// per-candidate finish statuses.
func classify(resp Response) Outcome {
	if resp.BlockReason != "" {
		return Outcome{Kind: OutcomeBlocked, Reason: resp.BlockReason}
	}

	var (
		texts     []string
		truncated bool
	)
	for _, cand := range resp.Candidates {
		if cand.FinishReason == FinishSafety {
			return Outcome{Kind: OutcomeBlocked, Reason: "candidate stopped by safety filter"}
		}
		if cand.FinishReason == FinishMaxTokens {
			truncated = true
		}
		if part := strings.TrimSpace(strings.Join(cand.Parts, "\n")); part != "" {
			texts = append(texts, part)
		}
	}

	merged := strings.TrimSpace(strings.Join(texts, "\n"))
	if truncated {
		return Outcome{Kind: OutcomeTruncated, Text: merged}
	}
	if merged == "" {
		return Outcome{Kind: OutcomeEmpty}
	}
	return Outcome{Kind: OutcomeSuccess, Text: merged}
}

// shortenPrompt keeps a fixed-size prefix and suffix of an oversized prompt.
// Prompts already within budget pass through unchanged.
func shortenPrompt(prompt string, prefix, suffix int) string {
	runes := []rune(prompt)
	if len(runes) <= prefix+suffix {
		return prompt
	}
	return string(runes[:prefix]) + "\n[...]\n" + string(runes[len(runes)-suffix:])
}
