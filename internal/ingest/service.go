package ingest

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/content"
	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/manifest"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrMarkdownServiceRequired indicates the pipeline was constructed without a
// document source.
var ErrMarkdownServiceRequired = errors.New("ingest: markdown service is required")

// Config captures the static behaviour of the ingestion pipeline.
type Config struct {
	// ContentRoot is recorded on build manifests; discovery itself happens
	// through the markdown service, which is already rooted.
	ContentRoot string
	// Pattern is the default discovery glob.
	Pattern string
	// IncludeDrafts publishes entries marked draft instead of skipping them.
	IncludeDrafts bool
	// ExtraSchema optionally constrains front-matter keys outside the typed
	// schema, expressed as a JSON schema applied to Entry.Extra.
	ExtraSchema map[string]any
	// Assets optionally resolves hero image references to canonical locations.
	// Entries whose references cannot be resolved fail the pass individually.
	Assets interfaces.AssetResolver
}

// Options provide per-pass overrides.
type Options struct {
	DryRun        bool
	Pattern       string
	IncludeDrafts *bool
}

// Result reports one ingestion pass. Validation failures never abort the
// pass: valid entries still publish, and the complete failure set is carried
// here so callers can surface every broken document at once.
type Result struct {
	BuildID     uuid.UUID
	Registry    *content.Registry
	Documents   []*interfaces.Document
	StartedAt   time.Time
	CompletedAt time.Time
	DryRun      bool

	Published     int
	DraftsSkipped int
	Failures      []content.EntryFailure

	// Manifest accounting relative to the previous recorded build. Empty when
	// no manifest repository is configured.
	Created   []string
	Updated   []string
	Unchanged []string
	Removed   []string
}

// Service wires the one-way pipeline: loader, validator, registry, snapshot
// store, manifest bookkeeping.
type Service struct {
	cfg       Config
	markdown  *markdown.Service
	store     *content.Store
	manifests manifest.Repository
	logger    interfaces.Logger
}

// NewService constructs the ingestion pipeline. The manifest repository and
// logger are optional.
func NewService(cfg Config, md *markdown.Service, store *content.Store, manifests manifest.Repository, logger interfaces.Logger) (*Service, error) {
	if md == nil {
		return nil, ErrMarkdownServiceRequired
	}
	if store == nil {
		store = content.NewStore()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	if err := validation.ValidateSchema(cfg.ExtraSchema); err != nil {
		return nil, fmt.Errorf("ingest: extra front-matter schema: %w", err)
	}

	return &Service{
		cfg:       cfg,
		markdown:  md,
		store:     store,
		manifests: manifests,
		logger:    logger,
	}, nil
}

// Store exposes the snapshot store readers query.
func (s *Service) Store() *content.Store {
	return s.store
}

// Rebuild runs a full ingestion pass: discover, validate, build a fresh
// registry, and swap it in atomically. Queries in flight keep reading the old
// snapshot; the swap is all-or-nothing. A registry-level failure (duplicate
// slugs) fails the pass and leaves the current snapshot untouched.
func (s *Service) Rebuild(ctx context.Context, opts Options) (*Result, error) {
	startedAt := time.Now().UTC()
	result := &Result{
		StartedAt: startedAt,
		DryRun:    opts.DryRun,
		BuildID:   identity.BuildUUID(s.cfg.ContentRoot, startedAt.Format(time.RFC3339Nano)),
	}

	docs, err := s.markdown.LoadDirectory(ctx, ".", interfaces.LoadOptions{
		Pattern: firstNonEmpty(opts.Pattern, s.cfg.Pattern),
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: load documents: %w", err)
	}
	result.Documents = docs

	raws := make([]content.RawEntry, 0, len(docs))
	for _, doc := range docs {
		raws = append(raws, content.RawEntry{
			Source: doc.SourcePath,
			Fields: content.RawFrontMatter(doc.FrontMatter),
		})
	}

	entries, err := content.ValidateAll(raws)
	if err != nil {
		var batchErr *content.BatchError
		if !errors.As(err, &batchErr) {
			return nil, err
		}
		result.Failures = batchErr.Failures
		for _, failure := range batchErr.Failures {
			s.logger.Warn("ingest.validate.failed", "source", failure.Source, "error", failure.Err)
		}
	}

	entries = s.attachProvenance(entries, docs)
	entries = s.resolveAssets(ctx, entries, result)
	entries = s.validateExtras(entries, result)
	entries = s.filterDrafts(entries, opts.IncludeDrafts, result)

	registry, err := content.NewRegistry(entries)
	if err != nil {
		s.logger.Error("ingest.registry.rejected", "error", err)
		return nil, err
	}
	result.Registry = registry
	result.Published = registry.Len()

	if !opts.DryRun {
		s.store.Swap(registry)
	}

	if err := s.recordManifest(ctx, registry, result); err != nil {
		return nil, err
	}

	result.CompletedAt = time.Now().UTC()
	s.logger.Info("ingest.rebuild.complete",
		"published", result.Published,
		"failed", len(result.Failures),
		"drafts_skipped", result.DraftsSkipped,
		"dry_run", opts.DryRun,
	)
	return result, nil
}

// attachProvenance copies loader-derived fields onto the freshly validated
// entries before they are published.
func (s *Service) attachProvenance(entries []*content.Entry, docs []*interfaces.Document) []*content.Entry {
	bySource := make(map[string]*interfaces.Document, len(docs))
	for _, doc := range docs {
		bySource[doc.SourcePath] = doc
	}
	for _, entry := range entries {
		if doc, ok := bySource[entry.SourcePath]; ok {
			entry.Checksum = doc.Checksum
			entry.LastModified = doc.LastModified
		}
	}
	return entries
}

// resolveAssets rewrites hero image references through the configured
// resolver. Entries keep their original reference when no resolver is set.
func (s *Service) resolveAssets(ctx context.Context, entries []*content.Entry, result *Result) []*content.Entry {
	if s.cfg.Assets == nil {
		return entries
	}
	kept := entries[:0]
	for _, entry := range entries {
		if entry.HeroImage == "" {
			kept = append(kept, entry)
			continue
		}
		resolved, err := s.cfg.Assets.Resolve(ctx, entry.HeroImage)
		if err != nil {
			result.Failures = append(result.Failures, content.EntryFailure{
				Source: entry.SourcePath,
				Err:    fmt.Errorf("ingest: hero image for %s: %w", entry.Slug, err),
			})
			s.logger.Warn("ingest.asset.failed", "source", entry.SourcePath, "ref", entry.HeroImage, "error", err)
			continue
		}
		entry.HeroImage = resolved
		kept = append(kept, entry)
	}
	return kept
}

func (s *Service) validateExtras(entries []*content.Entry, result *Result) []*content.Entry {
	if len(s.cfg.ExtraSchema) == 0 {
		return entries
	}
	kept := entries[:0]
	for _, entry := range entries {
		if err := validation.ValidatePayload(s.cfg.ExtraSchema, entry.Extra); err != nil {
			result.Failures = append(result.Failures, content.EntryFailure{
				Source: entry.SourcePath,
				Err:    fmt.Errorf("ingest: extra front-matter for %s: %w", entry.Slug, err),
			})
			s.logger.Warn("ingest.extra_schema.failed", "source", entry.SourcePath, "error", err)
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

func (s *Service) filterDrafts(entries []*content.Entry, override *bool, result *Result) []*content.Entry {
	include := s.cfg.IncludeDrafts
	if override != nil {
		include = *override
	}
	if include {
		return entries
	}
	kept := entries[:0]
	for _, entry := range entries {
		if entry.Draft {
			result.DraftsSkipped++
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

func (s *Service) recordManifest(ctx context.Context, registry *content.Registry, result *Result) error {
	if s.manifests == nil {
		return nil
	}

	records := make([]manifest.EntryRecord, 0, registry.Len())
	for _, entry := range registry.Entries() {
		records = append(records, manifest.EntryRecord{
			Slug:       entry.Slug,
			SourcePath: entry.SourcePath,
			Checksum:   hex.EncodeToString(entry.Checksum),
		})
	}

	var previous []manifest.EntryRecord
	latest, err := s.manifests.Latest(ctx, s.cfg.ContentRoot)
	switch {
	case errors.Is(err, manifest.ErrBuildNotFound):
		// First pass for this root; everything counts as created.
	case err != nil:
		return fmt.Errorf("ingest: load previous manifest: %w", err)
	default:
		previous = latest.Entries
	}

	diff := manifest.DiffEntries(previous, records)
	result.Created = diff.Created
	result.Updated = diff.Updated
	result.Unchanged = diff.Unchanged
	result.Removed = diff.Removed

	if result.DryRun {
		return nil
	}

	build := manifest.Build{
		ID:           result.BuildID,
		ContentRoot:  s.cfg.ContentRoot,
		StartedAt:    result.StartedAt,
		CompletedAt:  time.Now().UTC(),
		EntryCount:   len(records),
		FailureCount: len(result.Failures),
		Entries:      records,
	}
	if err := s.manifests.Record(ctx, build); err != nil {
		return fmt.Errorf("ingest: record manifest: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
