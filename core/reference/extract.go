package reference

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Citation is a parsed but unresolved scripture reference found in text.
// VerseEnd is nil for single-verse citations.
type Citation struct {
	Raw        string
	Book       string
	Chapter    int
	VerseStart int
	VerseEnd   *int
}

// String renders the citation in canonical "Book Chapter:Start[-End]" form.
func (c Citation) String() string {
	var sb strings.Builder
	sb.WriteString(c.Book)
	sb.WriteString(fmt.Sprintf(" %d:%d", c.Chapter, c.VerseStart))
	if c.VerseEnd != nil {
		sb.WriteString(fmt.Sprintf("-%d", *c.VerseEnd))
	}
	return sb.String()
}

// End returns the effective last verse of the citation.
func (c Citation) End() int {
	if c.VerseEnd != nil {
		return *c.VerseEnd
	}
	return c.VerseStart
}

// citationPatterns is the ordered pattern list. Every pattern scans the whole
// input; output order is pattern order, then match position. A citation shaped
// so that both patterns hit it is reported once per pattern (see Extract).
var citationPatterns = []*regexp.Regexp{
	// "Matthew 5:3-4", "1 Cor 13:4"
	regexp.MustCompile(`(?i)(\d?\s?[A-Za-z\-]+)\s+(\d+):(\d+)(?:-(\d+))?`),
	// "Matthew 5, 3-4"
	regexp.MustCompile(`(?i)([A-Za-z\-]+)\s+(\d+),\s*(\d+)(?:-(\d+))?`),
}

// Extract scans text for citation-shaped substrings and returns them in
// pattern order, then position order. Matches with unparsable numeric fields
// are dropped silently; other matches in the same text still come through.
// Duplicates across patterns are not removed.
func Extract(text string) []Citation {
	var cites []Citation
	for _, pat := range citationPatterns {
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			c, ok := parseMatch(m)
			if !ok {
				continue
			}
			cites = append(cites, c)
		}
	}
	return cites
}

// First returns the first citation found in text, in the same deterministic
// order Extract uses.
func First(text string) (Citation, bool) {
	cites := Extract(text)
	if len(cites) == 0 {
		return Citation{}, false
	}
	return cites[0], true
}

func parseMatch(m []string) (Citation, bool) {
	chapter, err := strconv.Atoi(m[2])
	if err != nil {
		return Citation{}, false
	}
	start, err := strconv.Atoi(m[3])
	if err != nil || start < 1 {
		return Citation{}, false
	}
	c := Citation{
		Raw:        m[0],
		Book:       strings.TrimSpace(m[1]),
		Chapter:    chapter,
		VerseStart: start,
	}
	if m[4] != "" {
		end, err := strconv.Atoi(m[4])
		if err != nil || end < start {
			return Citation{}, false
		}
		c.VerseEnd = &end
	}
	return c, true
}
