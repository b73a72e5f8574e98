package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrContentDirRequired indicates the engine was configured without a content root.
var ErrContentDirRequired = errors.New("blog config: content directory is required")

// ErrPatternInvalid indicates the discovery glob cannot be compiled.
var ErrPatternInvalid = errors.New("blog config: content pattern is invalid")

var ErrFeedsOutputDirRequired = errors.New("blog config: feeds output directory is required when feeds are enabled")
var ErrFeedsMaxItemsInvalid = errors.New("blog config: feeds max items must be zero or positive")
var ErrManifestDSNRequired = errors.New("blog config: manifest DSN is required when the manifest is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config aggregates engine configuration. Fields intentionally use simple
// types so host applications can embed and extend them.
type Config struct {
	Content  ContentConfig  `yaml:"content"`
	Site     SiteConfig     `yaml:"site"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Manifest ManifestConfig `yaml:"manifest"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ContentConfig captures discovery and validation behaviour for the content pipeline.
type ContentConfig struct {
	// Dir is the root directory scanned for Markdown documents.
	Dir string `yaml:"dir"`
	// Pattern is a doublestar glob matched against paths relative to Dir.
	Pattern string `yaml:"pattern"`
	// IncludeDrafts publishes entries marked draft instead of skipping them.
	IncludeDrafts bool `yaml:"include_drafts"`
	// ExtraSchema optionally constrains unrecognised front-matter keys with a JSON schema.
	ExtraSchema map[string]any `yaml:"extra_schema"`
}

// SiteConfig describes the publishing site for links and feed headers.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
}

// FeedsConfig controls RSS generation.
type FeedsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
	MaxItems  int    `yaml:"max_items"`
}

// ManifestConfig controls build manifest persistence.
type ManifestConfig struct {
	Enabled bool `yaml:"enabled"`
	// DSN is passed to the sqlite driver, e.g. "file:blog.db?_fk=1".
	DSN string `yaml:"dsn"`
}

// MarkdownConfig captures goldmark parser options.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns opinionated defaults for an embedded blog engine.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:     "content",
			Pattern: "**/*.md",
		},
		Site: SiteConfig{
			Title:   "blog",
			BaseURL: "http://localhost",
		},
		Feeds: FeedsConfig{
			Enabled:   true,
			OutputDir: "dist",
			MaxItems:  100,
		},
		Manifest: ManifestConfig{},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm"},
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Load reads a YAML config file and overlays it on DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("blog config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("blog config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if pattern := strings.TrimSpace(cfg.Content.Pattern); pattern != "" {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %s", ErrPatternInvalid, pattern)
		}
	}
	if cfg.Feeds.Enabled {
		if strings.TrimSpace(cfg.Feeds.OutputDir) == "" {
			return ErrFeedsOutputDirRequired
		}
		if cfg.Feeds.MaxItems < 0 {
			return ErrFeedsMaxItemsInvalid
		}
	}
	if cfg.Manifest.Enabled {
		if strings.TrimSpace(cfg.Manifest.DSN) == "" {
			return ErrManifestDSNRequired
		}
	}
	if provider := normalizeToken(cfg.Logging.Provider); provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalizeToken(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := normalizeToken(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "noop", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
