package manifest

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrBuildNotFound indicates no manifest has been recorded for the content root yet.
var ErrBuildNotFound = errors.New("manifest: build not found")

// Build captures the outcome of one ingestion pass: which sources produced
// which slugs and their content checksums. Diffing consecutive builds yields
// created/updated/removed accounting without re-reading unchanged files.
type Build struct {
	ID           uuid.UUID
	ContentRoot  string
	StartedAt    time.Time
	CompletedAt  time.Time
	EntryCount   int
	FailureCount int
	Entries      []EntryRecord
}

// EntryRecord is the manifest row for a single published entry.
type EntryRecord struct {
	Slug       string
	SourcePath string
	Checksum   string
}

// Repository persists build manifests.
type Repository interface {
	// Latest returns the most recently completed build for the content root,
	// or ErrBuildNotFound.
	Latest(ctx context.Context, contentRoot string) (*Build, error)
	// Record stores a completed build and its entry rows.
	Record(ctx context.Context, build Build) error
}

// Diff summarises how one build's entry set changed relative to the previous
// build. Slugs are sorted for stable reporting.
type Diff struct {
	Created   []string
	Updated   []string
	Unchanged []string
	Removed   []string
}

// DiffEntries compares two manifest entry sets keyed by slug.
func DiffEntries(previous, current []EntryRecord) Diff {
	prior := make(map[string]EntryRecord, len(previous))
	for _, record := range previous {
		prior[record.Slug] = record
	}

	var diff Diff
	seen := make(map[string]struct{}, len(current))

	for _, record := range current {
		seen[record.Slug] = struct{}{}
		before, ok := prior[record.Slug]
		switch {
		case !ok:
			diff.Created = append(diff.Created, record.Slug)
		case before.Checksum != record.Checksum:
			diff.Updated = append(diff.Updated, record.Slug)
		default:
			diff.Unchanged = append(diff.Unchanged, record.Slug)
		}
	}

	for slug := range prior {
		if _, ok := seen[slug]; !ok {
			diff.Removed = append(diff.Removed, slug)
		}
	}

	sort.Strings(diff.Created)
	sort.Strings(diff.Updated)
	sort.Strings(diff.Unchanged)
	sort.Strings(diff.Removed)
	return diff
}
