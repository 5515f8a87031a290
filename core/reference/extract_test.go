package reference

import "testing"

func intPtr(i int) *int { return &i }

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     []Citation
	}{
		{
			name: "colon range",
			text: "Today's Gospel reading is from Matthew 5:3-8",
			want: []Citation{
				{Book: "Matthew", Chapter: 5, VerseStart: 3, VerseEnd: intPtr(8)},
			},
		},
		{
			name: "single verse",
			text: "Gospel: John 3:16",
			want: []Citation{
				{Book: "John", Chapter: 3, VerseStart: 16},
			},
		},
		{
			name: "numbered book",
			text: "1 Corinthians 13:4-8 speaks about love",
			want: []Citation{
				{Book: "1 Corinthians", Chapter: 13, VerseStart: 4, VerseEnd: intPtr(8)},
			},
		},
		{
			name: "multiple citations in order",
			text: "First Reading: Genesis 1:1-5, Psalm 23:1-6",
			want: []Citation{
				{Book: "Genesis", Chapter: 1, VerseStart: 1, VerseEnd: intPtr(5)},
				{Book: "Psalm", Chapter: 23, VerseStart: 1, VerseEnd: intPtr(6)},
			},
		},
		{
			name: "comma separator",
			text: "Reading from Matthew 5, 3-4 today",
			want: []Citation{
				{Book: "Matthew", Chapter: 5, VerseStart: 3, VerseEnd: intPtr(4)},
			},
		},
		{
			name: "no citation",
			text: "an ordinary sentence with no references",
			want: nil,
		},
		{
			name: "range end before start dropped",
			text: "broken reference John 3:17-16 here",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Extract(%q) returned %d citations, want %d: %v", tt.text, len(got), len(tt.want), got)
			}
			for i, want := range tt.want {
				checkCitation(t, got[i], want)
			}
		})
	}
}

func checkCitation(t *testing.T, got, want Citation) {
	t.Helper()
	if got.Book != want.Book {
		t.Errorf("book = %q, want %q", got.Book, want.Book)
	}
	if got.Chapter != want.Chapter {
		t.Errorf("chapter = %d, want %d", got.Chapter, want.Chapter)
	}
	if got.VerseStart != want.VerseStart {
		t.Errorf("verse start = %d, want %d", got.VerseStart, want.VerseStart)
	}
	switch {
	case want.VerseEnd == nil && got.VerseEnd != nil:
		t.Errorf("verse end = %d, want none", *got.VerseEnd)
	case want.VerseEnd != nil && got.VerseEnd == nil:
		t.Errorf("verse end missing, want %d", *want.VerseEnd)
	case want.VerseEnd != nil && *got.VerseEnd != *want.VerseEnd:
		t.Errorf("verse end = %d, want %d", *got.VerseEnd, *want.VerseEnd)
	}
}

func TestExtractDuplicatesAcrossPatterns(t *testing.T) {
	// A comma citation followed by a range also satisfies the colon pattern's
	// comma-free sibling in some inputs; what matters is that each pattern
	// reports its own matches and ordering stays pattern-first.
	got := Extract("John 3:16 and Matthew 5, 3")
	if len(got) != 2 {
		t.Fatalf("got %d citations, want 2: %v", len(got), got)
	}
	if got[0].Book != "John" || got[1].Book != "Matthew" {
		t.Errorf("pattern ordering violated: %v", got)
	}
}

func TestFirst(t *testing.T) {
	c, ok := First("Gospel: John 3:16-17")
	if !ok {
		t.Fatal("First returned no citation")
	}
	checkCitation(t, c, Citation{Book: "John", Chapter: 3, VerseStart: 16, VerseEnd: intPtr(17)})

	if _, ok := First("nothing here"); ok {
		t.Error("First found a citation in plain prose")
	}
}

func TestCitationString(t *testing.T) {
	c := Citation{Book: "Matthew", Chapter: 5, VerseStart: 3, VerseEnd: intPtr(8)}
	if got := c.String(); got != "Matthew 5:3-8" {
		t.Errorf("String() = %q, want %q", got, "Matthew 5:3-8")
	}
	single := Citation{Book: "John", Chapter: 3, VerseStart: 16}
	if got := single.String(); got != "John 3:16" {
		t.Errorf("String() = %q, want %q", got, "John 3:16")
	}
}

func TestCitationEnd(t *testing.T) {
	if got := (Citation{VerseStart: 3}).End(); got != 3 {
		t.Errorf("End() = %d, want 3", got)
	}
	if got := (Citation{VerseStart: 3, VerseEnd: intPtr(8)}).End(); got != 8 {
		t.Errorf("End() = %d, want 8", got)
	}
}
