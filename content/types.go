package content

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawFrontMatter is the untyped key/value mapping decoded from a document's
// front-matter block before schema validation.
type RawFrontMatter map[string]any

// RawEntry pairs a front-matter mapping with the source it was read from so
// batch validation can report failures per document.
type RawEntry struct {
	Source string
	Fields RawFrontMatter
}

// Entry is the canonical record for a published article. Entries are
// immutable value objects: they are created once at ingestion time and a new
// registry is built wholesale whenever the backing sources change.
type Entry struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Description string
	PublishDate time.Time
	UpdatedDate *time.Time
	HeroImage   string
	Category    string
	Tags        []string
	Draft       bool
	// Extra carries front-matter keys outside the typed schema. They are
	// passed through to renderers untouched.
	Extra map[string]any

	SourcePath   string
	Checksum     []byte
	LastModified time.Time
}

// HasTag reports whether the entry carries the supplied tag. Matching is
// case-insensitive to mirror tag query semantics.
func (e *Entry) HasTag(tag string) bool {
	if e == nil {
		return false
	}
	tag = strings.TrimSpace(tag)
	for _, candidate := range e.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}

// normalizeTags trims entries, collapses case-insensitive duplicates keeping
// the first spelling, and sorts the result for deterministic output. The
// returned slice is never nil.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}

	sort.Strings(out)
	return out
}
