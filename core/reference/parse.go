package reference

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// strictCitation is the grammar for an input that is exactly one citation,
// such as the argument of the resolve CLI command. Both the colon and the
// comma verse separator are accepted.
type strictCitation struct {
	Book       string `parser:"@Book"`
	Chapter    int    `parser:"@Number"`
	VerseStart int    `parser:"( \":\" | \",\" ) @Number"`
	VerseEnd   *int   `parser:"( \"-\" @Number )?"`
}

var citationLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Book tokens: optional leading ordinal, then words joined by spaces or
	// hyphens. Examples: Matthew, 1 Cor, Ma-thi-ơ, Khải Huyền.
	{Name: "Book", Pattern: `(?:\d\s*)?\p{L}+(?:[-\s]\p{L}+)*\.?`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var citationParser = participle.MustBuild[strictCitation](
	participle.Lexer(citationLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a string that must be a single bare citation, e.g.
// "Matthew 5:3-8" or "1 Cor 13, 4". Unlike Extract it rejects surrounding
// prose, so it is the right entry point for explicit user input.
func Parse(input string) (Citation, error) {
	ref, err := citationParser.ParseString("", input)
	if err != nil {
		return Citation{}, fmt.Errorf("parse citation %q: %w", input, err)
	}
	if ref.VerseStart < 1 {
		return Citation{}, fmt.Errorf("parse citation %q: verse numbers start at 1", input)
	}
	if ref.VerseEnd != nil && *ref.VerseEnd < ref.VerseStart {
		return Citation{}, fmt.Errorf("parse citation %q: verse range end before start", input)
	}
	return Citation{
		Raw:        input,
		Book:       ref.Book,
		Chapter:    ref.Chapter,
		VerseStart: ref.VerseStart,
		VerseEnd:   ref.VerseEnd,
	}, nil
}
