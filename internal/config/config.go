// Package config loads runtime configuration from the environment.
//
// A .env file in the working directory is honored when present; real
// environment variables always win. Invalid configuration is a hard startup
// error, never a silent default.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is the full configuration surface of the diary run.
type Config struct {
	// Generation backend
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`

	// Retry schedule
	Temperature      float64 `env:"GEMINI_TEMPERATURE" envDefault:"0.7"`
	RetryTemperature float64 `env:"GEMINI_RETRY_TEMPERATURE" envDefault:"0.4"`
	MaxOutputTokens  int     `env:"GEMINI_MAX_OUTPUT_TOKENS" envDefault:"1000"`
	MaxTokensCeiling int     `env:"GEMINI_MAX_TOKENS_CEILING" envDefault:"8192"`
	ShortenPrefix    int     `env:"PROMPT_SHORTEN_PREFIX" envDefault:"6000"`
	ShortenSuffix    int     `env:"PROMPT_SHORTEN_SUFFIX" envDefault:"2000"`

	// Verse corpus
	CorpusPath string `env:"BIBLE_DB_PATH" envDefault:"database/RVV.SQLite3"`

	// Daily readings source
	ReadingsBaseURL  string `env:"READINGS_BASE_URL" envDefault:"https://bible.usccb.org/bible/readings"`
	ReadingSelector  string `env:"READINGS_SECTION_SELECTOR" envDefault:"div.b-verse"`
	CitationSelector string `env:"READINGS_CITATION_SELECTOR" envDefault:"div.address a"`
	UserAgent        string `env:"READINGS_USER_AGENT" envDefault:"automatic-bible-diary/1.0"`

	// Prompt template: path to a file, or empty for the built-in default.
	TemplatePath string `env:"TEMPLATE_PATH"`

	// Timezone the diary date is computed in.
	Timezone string `env:"DIARY_TIMEZONE" envDefault:"Asia/Ho_Chi_Minh"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine; only surface real read errors.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// RequireGenerationKey verifies the API key is present. Commands that never
// reach the backend (resolve, books) skip this check.
func (c *Config) RequireGenerationKey() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return nil
}

// Template returns the prompt template text: the configured file when set,
// otherwise the given default.
func (c *Config) Template(defaultTemplate string) (string, error) {
	if c.TemplatePath == "" {
		return defaultTemplate, nil
	}
	data, err := os.ReadFile(c.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", c.TemplatePath, err)
	}
	return string(data), nil
}
