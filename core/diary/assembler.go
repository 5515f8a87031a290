package diary

import (
	"fmt"
	"strings"
)

// DefaultTemplate is the built-in prompt template, used when no template file
// is configured. Custom templates must carry the same two placeholders.
const DefaultTemplate = `Please create a thoughtful and personal Bible diary entry based on today's readings.

Date: {date}

Today's Bible Readings:
{body}

Please write a diary entry that:
1. Reflects on the key themes and messages from today's readings
2. Connects the biblical teachings to modern daily life
3. Includes personal insights and practical applications
4. Maintains a warm, contemplative, and inspiring tone
5. Is approximately 300-500 words long

Please write this as a personal diary entry, using a warm and reflective tone.`

// Placeholders every template must contain.
const (
	placeholderDate = "{date}"
	placeholderBody = "{body}"
)

// Assembler renders ReadingContent into a generation prompt. The template is
// fixed at construction; a template missing a placeholder is rejected there,
// as configuration errors must not surface mid-run as silently wrong prompts.
type Assembler struct {
	template string
}

// NewAssembler validates the template and returns an assembler for it.
func NewAssembler(template string) (*Assembler, error) {
	for _, ph := range []string{placeholderDate, placeholderBody} {
		if !strings.Contains(template, ph) {
			return nil, fmt.Errorf("prompt template missing %s placeholder", ph)
		}
	}
	return &Assembler{template: template}, nil
}

// Assemble renders the prompt for one day's content. Section order is fixed:
// citation line (with link when present), reading body, then the resolved
// Vietnamese block when enrichment succeeded.
func (a *Assembler) Assemble(content ReadingContent) string {
	var body strings.Builder

	if content.Citation != "" {
		body.WriteString("Gospel: ")
		body.WriteString(content.Citation)
		if content.CitationLink != "" {
			body.WriteString(" (")
			body.WriteString(content.CitationLink)
			body.WriteString(")")
		}
		body.WriteString("\n\n")
	}

	body.WriteString(strings.TrimSpace(content.Body))

	if content.Resolved != nil {
		body.WriteString("\n\nLời Chúa (Vietnamese):\n")
		body.WriteString(content.Resolved.Text)
		body.WriteString("\n— ")
		body.WriteString(content.Resolved.Reference())
	}

	prompt := strings.ReplaceAll(a.template, placeholderDate, content.Date)
	prompt = strings.ReplaceAll(prompt, placeholderBody, body.String())
	return prompt
}
