package diary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// stubBackend returns scripted responses in order and records every request.
type stubBackend struct {
	responses []Response
	errs      []error
	requests  []Request
}

func (s *stubBackend) Generate(_ context.Context, req Request) (Response, error) {
	s.requests = append(s.requests, req)
	i := len(s.requests) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return Response{}, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return s.responses[len(s.responses)-1], nil
}

func success(text string) Response {
	return Response{Candidates: []Candidate{{FinishReason: FinishStop, Parts: []string{text}}}}
}

func truncated(partial string) Response {
	return Response{Candidates: []Candidate{{FinishReason: FinishMaxTokens, Parts: []string{partial}}}}
}

func blocked() Response {
	return Response{Candidates: []Candidate{{FinishReason: FinishSafety}}}
}

func testConfig() PipelineConfig {
	return PipelineConfig{
		InitialTemperature: 0.7,
		InitialMaxTokens:   1000,
		RetryTemperature:   0.4,
		MaxTokensCeiling:   8192,
		ShortenPrefix:      40,
		ShortenSuffix:      20,
	}
}

func newTestPipeline(t *testing.T, backend Backend) *Pipeline {
	t.Helper()
	p, err := NewPipeline(backend, testConfig())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func TestRunSucceedsFirstAttempt(t *testing.T) {
	backend := &stubBackend{responses: []Response{success("entry text")}}
	p := newTestPipeline(t, backend)

	got, err := p.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "entry text" {
		t.Errorf("Run = %q, want %q", got, "entry text")
	}
	if len(backend.requests) != 1 {
		t.Errorf("backend called %d times, want 1", len(backend.requests))
	}
	req := backend.requests[0]
	if req.Temperature != 0.7 || req.MaxOutputTokens != 1000 {
		t.Errorf("first attempt used (%g, %d), want (0.7, 1000)", req.Temperature, req.MaxOutputTokens)
	}
}

func TestRunEscalatesAfterTruncation(t *testing.T) {
	backend := &stubBackend{responses: []Response{truncated("partial"), success("ok")}}
	p := newTestPipeline(t, backend)

	got, err := p.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "ok" {
		t.Errorf("Run = %q, want %q", got, "ok")
	}
	if len(backend.requests) != 2 {
		t.Fatalf("backend called %d times, want 2", len(backend.requests))
	}

	first, second := backend.requests[0], backend.requests[1]
	if second.MaxOutputTokens <= first.MaxOutputTokens {
		t.Errorf("retry budget %d not larger than initial %d", second.MaxOutputTokens, first.MaxOutputTokens)
	}
	if second.Temperature >= first.Temperature {
		t.Errorf("retry temperature %g not lower than initial %g", second.Temperature, first.Temperature)
	}
	if second.Prompt != first.Prompt {
		t.Error("second attempt must reuse the same prompt")
	}
}

func TestRunBudgetCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.InitialMaxTokens = 6000
	cfg.MaxTokensCeiling = 8192
	backend := &stubBackend{responses: []Response{truncated(""), success("ok")}}
	p, err := NewPipeline(backend, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Run(context.Background(), "prompt"); err != nil {
		t.Fatal(err)
	}
	if got := backend.requests[1].MaxOutputTokens; got != 8192 {
		t.Errorf("retry budget = %d, want ceiling 8192", got)
	}
}

func TestRunExhaustsAfterThreeTruncations(t *testing.T) {
	longPrompt := strings.Repeat("reading text ", 50) // well past prefix+suffix
	backend := &stubBackend{responses: []Response{truncated(""), truncated(""), truncated("")}}
	p := newTestPipeline(t, backend)

	_, err := p.Run(context.Background(), longPrompt)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Run error = %v, want ErrGenerationExhausted", err)
	}
	if len(backend.requests) != 3 {
		t.Fatalf("backend called %d times, want 3", len(backend.requests))
	}

	third := backend.requests[2]
	if third.Prompt == longPrompt {
		t.Error("third attempt did not shorten the prompt")
	}
	if !strings.HasPrefix(longPrompt, third.Prompt[:10]) {
		t.Error("shortened prompt does not keep the original prefix")
	}
	if !strings.HasSuffix(third.Prompt, longPrompt[len(longPrompt)-10:]) {
		t.Error("shortened prompt does not keep the original suffix")
	}
	if third.MaxOutputTokens != backend.requests[1].MaxOutputTokens {
		t.Error("third attempt must stay at the second attempt's budget tier")
	}
}

func TestRunBlockedReportedDistinctly(t *testing.T) {
	backend := &stubBackend{responses: []Response{blocked(), blocked()}}
	p := newTestPipeline(t, backend)

	_, err := p.Run(context.Background(), "prompt")
	if !errors.Is(err, ErrGenerationBlocked) {
		t.Fatalf("Run error = %v, want ErrGenerationBlocked", err)
	}
	// A block is not a truncation: no shortened third attempt.
	if len(backend.requests) != 2 {
		t.Errorf("backend called %d times, want 2", len(backend.requests))
	}
}

func TestRunBlockedThenRecovered(t *testing.T) {
	backend := &stubBackend{responses: []Response{blocked(), success("recovered")}}
	p := newTestPipeline(t, backend)

	got, err := p.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "recovered" {
		t.Errorf("Run = %q, want %q", got, "recovered")
	}
}

func TestRunTransportErrorEscalates(t *testing.T) {
	backend := &stubBackend{
		responses: []Response{{}, success("ok")},
		errs:      []error{fmt.Errorf("connection refused"), nil},
	}
	p := newTestPipeline(t, backend)

	got, err := p.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "ok" {
		t.Errorf("Run = %q, want %q", got, "ok")
	}
	if len(backend.requests) != 2 {
		t.Errorf("backend called %d times, want 2", len(backend.requests))
	}
}

func TestRunEmptyTwiceExhausts(t *testing.T) {
	backend := &stubBackend{responses: []Response{{}, {}}}
	p := newTestPipeline(t, backend)

	_, err := p.Run(context.Background(), "prompt")
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Run error = %v, want ErrGenerationExhausted", err)
	}
	if len(backend.requests) != 2 {
		t.Errorf("backend called %d times, want 2 (empty is not truncation)", len(backend.requests))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		resp     Response
		wantKind OutcomeKind
		wantText string
	}{
		{
			name:     "multi-part candidates merge with newlines",
			resp:     Response{Candidates: []Candidate{{FinishReason: FinishStop, Parts: []string{"first", "second"}}}},
			wantKind: OutcomeSuccess,
			wantText: "first\nsecond",
		},
		{
			name:     "surrounding whitespace trimmed",
			resp:     Response{Candidates: []Candidate{{FinishReason: FinishStop, Parts: []string{"  text \n"}}}},
			wantKind: OutcomeSuccess,
			wantText: "text",
		},
		{
			name:     "truncated keeps partial text",
			resp:     truncated("partial"),
			wantKind: OutcomeTruncated,
			wantText: "partial",
		},
		{
			name:     "safety wins over text",
			resp:     Response{Candidates: []Candidate{{FinishReason: FinishSafety, Parts: []string{"partial"}}}},
			wantKind: OutcomeBlocked,
		},
		{
			name:     "prompt-level block",
			resp:     Response{BlockReason: "PROHIBITED_CONTENT"},
			wantKind: OutcomeBlocked,
		},
		{
			name:     "no candidates",
			resp:     Response{},
			wantKind: OutcomeEmpty,
		},
		{
			name:     "whitespace-only text is empty",
			resp:     Response{Candidates: []Candidate{{FinishReason: FinishStop, Parts: []string{"  \n "}}}},
			wantKind: OutcomeEmpty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := classify(tt.resp)
			if out.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", out.Kind, tt.wantKind)
			}
			if out.Text != tt.wantText {
				t.Errorf("text = %q, want %q", out.Text, tt.wantText)
			}
		})
	}
}

func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PipelineConfig)
		wantErr bool
	}{
		{"valid", func(c *PipelineConfig) {}, false},
		{"zero budget", func(c *PipelineConfig) { c.InitialMaxTokens = 0 }, true},
		{"ceiling below initial", func(c *PipelineConfig) { c.MaxTokensCeiling = 10 }, true},
		{"retry temperature too high", func(c *PipelineConfig) { c.RetryTemperature = 0.7 }, true},
		{"zero shorten prefix", func(c *PipelineConfig) { c.ShortenPrefix = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShortenPrompt(t *testing.T) {
	if got := shortenPrompt("short", 10, 10); got != "short" {
		t.Errorf("short prompt modified: %q", got)
	}
	long := strings.Repeat("a", 50) + strings.Repeat("b", 50)
	got := shortenPrompt(long, 10, 10)
	if !strings.HasPrefix(got, strings.Repeat("a", 10)) {
		t.Errorf("prefix not kept: %q", got)
	}
	if !strings.HasSuffix(got, strings.Repeat("b", 10)) {
		t.Errorf("suffix not kept: %q", got)
	}
	if len([]rune(got)) >= len([]rune(long)) {
		t.Errorf("prompt not shortened: %d runes", len([]rune(got)))
	}
}
