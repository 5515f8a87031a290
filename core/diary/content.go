// Package diary assembles generation prompts from daily reading content and
// drives a text-generation backend through a bounded retry schedule.
package diary

import (
	"github.com/minhtrung1997/automatic-bible-diary/core/resolver"
)

// ReadingContent is one day's reading as supplied by the upstream collaborator
// (scraper, file, test fixture). Optional fields are empty strings or nil;
// they are read by name and omitted from output when absent, never rendered
// as placeholders.
//
// The pipeline treats the value as read-only input; enrichment happens on a
// copy owned by the caller.
type ReadingContent struct {
	Date         string                      `json:"date"`
	SourceURL    string                      `json:"source_url"`
	Citation     string                      `json:"citation,omitempty"`
	CitationLink string                      `json:"citation_link,omitempty"`
	Body         string                      `json:"body"`
	Resolved     *resolver.ResolvedReference `json:"-"`
}
