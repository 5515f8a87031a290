// Package scripture queries a read-only SQLite Bible corpus.
//
// The corpus schema is the minimal two-table layout used by MyBible-style
// modules: books(book_number, short_name, long_name) and
// verses(book_number, chapter, verse, text). Richer schemas are ignored.
//
// Build modes follow the repository convention:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (-tags cgo_sqlite): mattn/go-sqlite3
package scripture

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/minhtrung1997/automatic-bible-diary/internal/logging"
)

// Book is one row of the corpus book table.
type Book struct {
	Number    int
	ShortName string
	LongName  string
}

// Store owns the connection to the verse corpus. It is safe for sequential
// use; wrap it externally if calls may overlap.
type Store struct {
	db   *sql.DB
	path string
}

// DriverName returns the registered SQL driver name for the active build mode.
func DriverName() string {
	return driverName
}

// DriverType reports the underlying SQLite implementation ("purego" or "cgo").
func DriverType() string {
	return driverType
}

// Open opens the corpus database in read-only mode. A missing or unreadable
// corpus is a hard error: resolution cannot degrade gracefully if the store
// never existed.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("bible corpus not found at %s: %w", path, err)
	}
	db, err := sql.Open(driverName, path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open bible corpus %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open bible corpus %s: %w", path, err)
	}
	logging.Debug("bible corpus opened", "path", path, "driver", driverType)
	return &Store{db: db, path: path}, nil
}

// Close releases the corpus handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// FindBook looks up a book by name fragment, matching case-insensitively
// against both the short and the long name column. The first row in
// book_number order wins, which keeps resolution stable for short fragments
// that appear in several names.
func (s *Store) FindBook(name string) (Book, bool) {
	needle := "%" + strings.ToLower(name) + "%"
	row := s.db.QueryRow(`
		SELECT book_number, short_name, long_name FROM books
		WHERE LOWER(short_name) LIKE ? OR LOWER(long_name) LIKE ?
		ORDER BY book_number LIMIT 1`, needle, needle)

	var b Book
	if err := row.Scan(&b.Number, &b.ShortName, &b.LongName); err != nil {
		if err != sql.ErrNoRows {
			logging.Error("book lookup failed", "name", name, "error", err)
		}
		return Book{}, false
	}
	return b, true
}

// FindBookNumber is FindBook reduced to the canonical book number.
func (s *Store) FindBookNumber(name string) (int, bool) {
	b, ok := s.FindBook(name)
	return b.Number, ok
}

// Verses returns the text of verses verseStart..verseEnd of a chapter,
// joined with single spaces in ascending verse order. Verses with empty text
// are skipped. The second return is false when nothing matched or the query
// failed; storage errors are logged here and never propagated, because a
// missing verse must not abort the caller's run.
func (s *Store) Verses(bookNumber, chapter, verseStart, verseEnd int) (string, bool) {
	rows, err := s.db.Query(`
		SELECT text FROM verses
		WHERE book_number = ? AND chapter = ? AND verse >= ? AND verse <= ?
		ORDER BY verse`, bookNumber, chapter, verseStart, verseEnd)
	if err != nil {
		logging.Error("verse query failed",
			"book", bookNumber, "chapter", chapter,
			"verse_start", verseStart, "verse_end", verseEnd, "error", err)
		return "", false
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			logging.Error("verse scan failed", "book", bookNumber, "chapter", chapter, "error", err)
			return "", false
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	if err := rows.Err(); err != nil {
		logging.Error("verse iteration failed", "book", bookNumber, "chapter", chapter, "error", err)
		return "", false
	}
	if len(texts) == 0 {
		logging.Warn("no verses found",
			"book", bookNumber, "chapter", chapter,
			"verse_start", verseStart, "verse_end", verseEnd)
		return "", false
	}
	return strings.Join(texts, " "), true
}

// ListBooks returns all corpus books ordered by canonical book number.
// Failures are absorbed into an empty result plus a logged diagnostic.
func (s *Store) ListBooks() []Book {
	rows, err := s.db.Query(`SELECT book_number, short_name, long_name FROM books ORDER BY book_number`)
	if err != nil {
		logging.Error("book listing failed", "error", err)
		return nil
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.Number, &b.ShortName, &b.LongName); err != nil {
			logging.Error("book scan failed", "error", err)
			return nil
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		logging.Error("book iteration failed", "error", err)
		return nil
	}
	return books
}
