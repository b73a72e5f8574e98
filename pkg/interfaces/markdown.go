package interfaces

import "time"

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should be safe for reuse across ingestion passes so hosts
// can share a single parser instance without additional locking.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// Document represents a Markdown source file after front-matter extraction
// but before schema validation. The body is carried through untouched; the
// engine never interprets body text beyond rendering it to HTML.
type Document struct {
	SourcePath  string
	FrontMatter map[string]any
	Body        []byte
	BodyHTML    []byte
	// Checksum stores a digest of the original file content (SHA-256) so
	// build passes can detect changes without re-reading unchanged files.
	Checksum     []byte
	LastModified time.Time
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
