// Command bible-diary fetches the day's readings, enriches them with
// Vietnamese verse text from a local corpus, and generates a diary entry
// through the Gemini API. Delivery of the result is left to the caller: the
// entry is written to stdout or a file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/minhtrung1997/automatic-bible-diary/core/diary"
	"github.com/minhtrung1997/automatic-bible-diary/core/reference"
	"github.com/minhtrung1997/automatic-bible-diary/core/resolver"
	"github.com/minhtrung1997/automatic-bible-diary/core/scripture"
	"github.com/minhtrung1997/automatic-bible-diary/internal/config"
	"github.com/minhtrung1997/automatic-bible-diary/internal/fetch"
	"github.com/minhtrung1997/automatic-bible-diary/internal/gemini"
	"github.com/minhtrung1997/automatic-bible-diary/internal/logging"
)

const version = "1.0.0"

// CLI defines the command-line interface for bible-diary.
var CLI struct {
	Debug bool `name:"debug" help:"Enable debug logging"`

	Generate GenerateCmd `cmd:"" help:"Generate today's diary entry"`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve a citation against the verse corpus"`
	Books    BooksCmd    `cmd:"" help:"List the books of the verse corpus"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// GenerateCmd runs the full daily cycle: fetch, resolve, assemble, generate.
type GenerateCmd struct {
	Input  string `name:"input" short:"i" help:"Read content from a JSON file instead of fetching" type:"existingfile"`
	Output string `name:"output" short:"o" help:"Write the entry to a file instead of stdout" type:"path"`
	Date   string `name:"date" help:"Override the diary date (YYYY-MM-DD)"`
}

func (c *GenerateCmd) Run(cfg *config.Config) error {
	ctx := logging.WithRunID(context.Background(), uuid.NewString())

	content, err := c.loadContent(ctx, cfg)
	if err != nil {
		return err
	}
	logging.InfoContext(ctx, "reading content ready", "date", content.Date, "citation", content.Citation)

	enrich(ctx, cfg, &content)

	template, err := cfg.Template(diary.DefaultTemplate)
	if err != nil {
		return err
	}
	assembler, err := diary.NewAssembler(template)
	if err != nil {
		return err
	}

	if err := cfg.RequireGenerationKey(); err != nil {
		return err
	}
	backend, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	pipeline, err := diary.NewPipeline(backend, pipelineConfig(cfg))
	if err != nil {
		return err
	}

	entry, err := pipeline.Run(ctx, assembler.Assemble(content))
	if err != nil {
		return fmt.Errorf("diary generation failed: %w", err)
	}
	logging.InfoContext(ctx, "diary entry generated", "length", len(entry))

	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(entry+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing entry: %w", err)
		}
		return nil
	}
	fmt.Println(entry)
	return nil
}

// loadContent reads the day's content from the input file when given,
// otherwise fetches it from the configured readings source.
func (c *GenerateCmd) loadContent(ctx context.Context, cfg *config.Config) (diary.ReadingContent, error) {
	if c.Input != "" {
		return readContentFile(c.Input)
	}

	date, err := diaryDate(c.Date, cfg.Timezone)
	if err != nil {
		return diary.ReadingContent{}, err
	}
	source := fetch.NewSource(cfg.ReadingsBaseURL, cfg.ReadingSelector, cfg.CitationSelector, cfg.UserAgent)
	return source.FetchDaily(ctx, date)
}

// enrich attaches resolved Vietnamese verse text to the content. Every
// failure here degrades to "no enrichment": a missing corpus or verse must
// not cost the day's entry.
func enrich(ctx context.Context, cfg *config.Config, content *diary.ReadingContent) {
	store, err := scripture.Open(cfg.CorpusPath)
	if err != nil {
		logging.WarnContext(ctx, "verse corpus unavailable, continuing without enrichment", "error", err)
		return
	}
	defer store.Close()

	text := content.Citation
	if text == "" {
		text = content.Body
	}
	resolved, err := resolver.New(store).Resolve(text)
	if err != nil {
		logging.WarnContext(ctx, "citation not resolved, continuing without enrichment", "error", err)
		return
	}
	content.Resolved = resolved
	logging.InfoContext(ctx, "citation resolved", "reference", resolved.Reference())
}

func readContentFile(path string) (diary.ReadingContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return diary.ReadingContent{}, fmt.Errorf("reading content file: %w", err)
	}
	var content diary.ReadingContent
	if err := json.Unmarshal(data, &content); err != nil {
		return diary.ReadingContent{}, fmt.Errorf("parsing content file %s: %w", path, err)
	}
	if content.Body == "" {
		return diary.ReadingContent{}, fmt.Errorf("content file %s has no body", path)
	}
	return content, nil
}

// diaryDate returns the date the diary entry is for: the override when given,
// otherwise now in the configured timezone.
func diaryDate(override, timezone string) (time.Time, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	if override == "" {
		return time.Now().In(loc), nil
	}
	date, err := time.ParseInLocation("2006-01-02", override, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", override, err)
	}
	return date, nil
}

func pipelineConfig(cfg *config.Config) diary.PipelineConfig {
	return diary.PipelineConfig{
		InitialTemperature: float32(cfg.Temperature),
		InitialMaxTokens:   int32(cfg.MaxOutputTokens),
		RetryTemperature:   float32(cfg.RetryTemperature),
		MaxTokensCeiling:   int32(cfg.MaxTokensCeiling),
		ShortenPrefix:      cfg.ShortenPrefix,
		ShortenSuffix:      cfg.ShortenSuffix,
	}
}

// ResolveCmd resolves one citation and prints the verse text.
type ResolveCmd struct {
	Citation string `arg:"" help:"Citation to resolve, e.g. 'Matthew 5:3-8'"`
}

func (c *ResolveCmd) Run(cfg *config.Config) error {
	store, err := scripture.Open(cfg.CorpusPath)
	if err != nil {
		return err
	}
	defer store.Close()

	r := resolver.New(store)

	// Strict parse first for bare citations; fall back to free-text
	// extraction so prose like "Gospel: Matthew 5:3" still works.
	var resolved *resolver.ResolvedReference
	if cite, perr := reference.Parse(c.Citation); perr == nil {
		resolved, err = r.ResolveCitation(cite)
	} else {
		resolved, err = r.Resolve(c.Citation)
	}
	if err != nil {
		return fmt.Errorf("cannot resolve %q: %w", c.Citation, err)
	}

	fmt.Printf("%s\n%s\n", resolved.Reference(), resolved.Text)
	return nil
}

// BooksCmd lists the corpus book table.
type BooksCmd struct{}

func (c *BooksCmd) Run(cfg *config.Config) error {
	store, err := scripture.Open(cfg.CorpusPath)
	if err != nil {
		return err
	}
	defer store.Close()

	books := store.ListBooks()
	if len(books) == 0 {
		return fmt.Errorf("corpus %s has no books", cfg.CorpusPath)
	}
	for _, b := range books {
		fmt.Printf("%3d  %-6s %s\n", b.Number, b.ShortName, b.LongName)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("bible-diary %s (sqlite driver: %s)\n", version, scripture.DriverType())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("bible-diary"),
		kong.Description("Daily Bible diary generator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	cfg, err := config.Load()
	ctx.FatalIfErrorf(err)

	if CLI.Debug || cfg.Debug {
		logging.InitLogger(logging.LevelDebug, logging.FormatText)
	}

	err = ctx.Run(cfg)
	ctx.FatalIfErrorf(err)
}
