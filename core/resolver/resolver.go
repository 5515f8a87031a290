// Package resolver turns citations found in free text into verse text from
// the corpus. Its failures are deliberately soft: a citation that cannot be
// resolved means "no enrichment available", never an aborted run.
package resolver

import (
	"errors"
	"fmt"

	"github.com/minhtrung1997/automatic-bible-diary/core/reference"
	"github.com/minhtrung1997/automatic-bible-diary/core/scripture"
	"github.com/minhtrung1997/automatic-bible-diary/internal/logging"
)

// Sentinel errors for the non-fatal resolution outcomes. Callers are expected
// to test with errors.Is and fall back to un-enriched content.
var (
	// ErrNoCitation indicates the input text contained no citation.
	ErrNoCitation = errors.New("no citation found")
	// ErrBookNotFound indicates the book token matched no corpus book.
	ErrBookNotFound = errors.New("book not found")
	// ErrVerseRangeNotFound indicates the verse range returned no text.
	ErrVerseRangeNotFound = errors.New("verse range not found")
)

// ResolvedReference is a citation matched to actual verse text. It is built
// per call and never cached here.
type ResolvedReference struct {
	Book       scripture.Book
	Chapter    int
	VerseStart int
	VerseEnd   int
	Text       string
}

// Reference renders the canonical "Book Chapter:Start[-End]" string using the
// corpus long name.
func (r ResolvedReference) Reference() string {
	if r.VerseEnd > r.VerseStart {
		return fmt.Sprintf("%s %d:%d-%d", r.Book.LongName, r.Chapter, r.VerseStart, r.VerseEnd)
	}
	return fmt.Sprintf("%s %d:%d", r.Book.LongName, r.Chapter, r.VerseStart)
}

// Resolver composes the citation extractor, the book alias table, and the
// verse store.
type Resolver struct {
	store *scripture.Store
}

// New creates a resolver over the given verse store. The resolver does not
// own the store; closing it remains the caller's job.
func New(store *scripture.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve extracts the first citation from free text and resolves it.
// The first citation is deterministic: first pattern, first match position.
func (r *Resolver) Resolve(text string) (*ResolvedReference, error) {
	c, ok := reference.First(text)
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", text, ErrNoCitation)
	}
	return r.ResolveCitation(c)
}

// ResolveCitation resolves an already-parsed citation against the corpus.
// The book token is normalized through the bilingual alias table first; the
// raw token is tried when the token is unmapped or the normalized name is
// unknown to the corpus, so corpora in either language resolve.
func (r *Resolver) ResolveCitation(c reference.Citation) (*ResolvedReference, error) {
	book, ok := r.findBook(c.Book)
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", c.Book, ErrBookNotFound)
	}

	end := c.End()
	text, ok := r.store.Verses(book.Number, c.Chapter, c.VerseStart, end)
	if !ok {
		return nil, fmt.Errorf("resolve %s %d:%d-%d: %w",
			book.LongName, c.Chapter, c.VerseStart, end, ErrVerseRangeNotFound)
	}

	return &ResolvedReference{
		Book:       book,
		Chapter:    c.Chapter,
		VerseStart: c.VerseStart,
		VerseEnd:   end,
		Text:       text,
	}, nil
}

func (r *Resolver) findBook(token string) (scripture.Book, bool) {
	if name, ok := reference.Normalize(token); ok {
		if book, ok := r.store.FindBook(name); ok {
			return book, true
		}
		logging.Debug("normalized book name not in corpus", "token", token, "normalized", name)
	}
	return r.store.FindBook(token)
}
