package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-blog/content"
	"github.com/goliatone/go-blog/internal/manifest"
	"github.com/goliatone/go-blog/internal/markdown"
)

type memoryManifests struct {
	mu     sync.Mutex
	builds map[string][]manifest.Build
}

func newMemoryManifests() *memoryManifests {
	return &memoryManifests{builds: map[string][]manifest.Build{}}
}

func (m *memoryManifests) Latest(_ context.Context, contentRoot string) (*manifest.Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := m.builds[contentRoot]
	if len(history) == 0 {
		return nil, manifest.ErrBuildNotFound
	}
	latest := history[len(history)-1]
	return &latest, nil
}

func (m *memoryManifests) Record(_ context.Context, build manifest.Build) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds[build.ContentRoot] = append(m.builds[build.ContentRoot], build)
	return nil
}

func postSource(title, date string, extra ...string) *fstest.MapFile {
	lines := []string{
		"---",
		"title: '" + title + "'",
		"description: 'desc'",
		"pubDate: '" + date + "'",
		"category: 'Programming'",
	}
	lines = append(lines, extra...)
	lines = append(lines, "---", "", "Body for "+title+".")
	return &fstest.MapFile{
		Data:    []byte(strings.Join(lines, "\n")),
		ModTime: time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC),
	}
}

func newTestService(t *testing.T, cfg Config, filesystem fstest.MapFS, manifests manifest.Repository) *Service {
	t.Helper()
	md := markdown.NewServiceWithFS(markdown.Config{Recursive: true, Pattern: "**/*.md"}, nil, filesystem)
	svc, err := NewService(cfg, md, content.NewStore(), manifests, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRebuildPublishesValidEntries(t *testing.T) {
	fsys := fstest.MapFS{
		"alpha.md": postSource("Alpha", "2025-01-10"),
		"beta.md":  postSource("Beta", "2025-01-12"),
		"broken.md": {Data: []byte(strings.Join([]string{
			"---",
			"description: 'no title or date'",
			"category: 'Programming'",
			"---",
			"body",
		}, "\n"))},
	}
	svc := newTestService(t, Config{ContentRoot: "site"}, fsys, nil)

	result, err := svc.Rebuild(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if result.Published != 2 {
		t.Fatalf("expected 2 published entries, got %d", result.Published)
	}
	if len(result.Failures) != 1 || result.Failures[0].Source != "broken.md" {
		t.Fatalf("expected broken.md to fail, got %#v", result.Failures)
	}

	registry := svc.Store().Current()
	if registry.Len() != 2 {
		t.Fatalf("expected snapshot with 2 entries, got %d", registry.Len())
	}
	entries := registry.Entries()
	if entries[0].Slug != "beta" || entries[1].Slug != "alpha" {
		t.Fatalf("expected newest-first ordering, got %s then %s", entries[0].Slug, entries[1].Slug)
	}
	if len(entries[0].Checksum) == 0 || entries[0].LastModified.IsZero() {
		t.Fatalf("expected provenance on published entries")
	}
}

func TestRebuildDryRunLeavesSnapshotUntouched(t *testing.T) {
	fsys := fstest.MapFS{"alpha.md": postSource("Alpha", "2025-01-10")}
	svc := newTestService(t, Config{ContentRoot: "site"}, fsys, nil)

	result, err := svc.Rebuild(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Published != 1 {
		t.Fatalf("dry run should still report publishable entries, got %d", result.Published)
	}
	if svc.Store().Current().Len() != 0 {
		t.Fatalf("dry run must not swap the snapshot")
	}
}

func TestRebuildDuplicateSlugsFailPassAndKeepSnapshot(t *testing.T) {
	svc := newTestService(t, Config{ContentRoot: "site"}, fstest.MapFS{
		"first.md": postSource("Original", "2025-01-10"),
	}, nil)
	if _, err := svc.Rebuild(context.Background(), Options{}); err != nil {
		t.Fatalf("seed rebuild: %v", err)
	}
	previous := svc.Store().Current()

	dupFS := fstest.MapFS{
		"one.md": postSource("Same Story", "2025-01-10"),
		"two.md": postSource("Same Story", "2025-01-11"),
	}
	dupSvc := newTestService(t, Config{ContentRoot: "site"}, dupFS, nil)
	dupSvc.store = svc.store

	if _, err := dupSvc.Rebuild(context.Background(), Options{}); !errors.Is(err, content.ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug failure, got %v", err)
	}
	if svc.Store().Current() != previous {
		t.Fatalf("failed pass must leave the previous snapshot in place")
	}
}

func TestRebuildDraftHandling(t *testing.T) {
	fsys := fstest.MapFS{
		"live.md":  postSource("Live", "2025-01-10"),
		"draft.md": postSource("Draft", "2025-01-11", "draft: true"),
	}
	svc := newTestService(t, Config{ContentRoot: "site"}, fsys, nil)

	result, err := svc.Rebuild(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Published != 1 || result.DraftsSkipped != 1 {
		t.Fatalf("expected draft skipped, got published=%d skipped=%d", result.Published, result.DraftsSkipped)
	}

	include := true
	result, err = svc.Rebuild(context.Background(), Options{IncludeDrafts: &include})
	if err != nil {
		t.Fatalf("Rebuild with drafts: %v", err)
	}
	if result.Published != 2 || result.DraftsSkipped != 0 {
		t.Fatalf("expected drafts included, got published=%d skipped=%d", result.Published, result.DraftsSkipped)
	}
}

func TestRebuildExtraSchema(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []any{"series"},
		"properties": map[string]any{
			"series": map[string]any{"type": "string"},
		},
	}
	fsys := fstest.MapFS{
		"tagged.md":   postSource("Tagged", "2025-01-10", "series: 'gpu'"),
		"untagged.md": postSource("Untagged", "2025-01-11"),
	}
	svc := newTestService(t, Config{ContentRoot: "site", ExtraSchema: schema}, fsys, nil)

	result, err := svc.Rebuild(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Published != 1 {
		t.Fatalf("expected only the conforming entry, got %d", result.Published)
	}
	if len(result.Failures) != 1 || result.Failures[0].Source != "untagged.md" {
		t.Fatalf("expected untagged.md schema failure, got %#v", result.Failures)
	}
}

func TestRebuildRejectsInvalidExtraSchema(t *testing.T) {
	md := markdown.NewServiceWithFS(markdown.Config{Recursive: true}, nil, fstest.MapFS{})
	_, err := NewService(Config{ExtraSchema: map[string]any{"type": 12}}, md, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected schema compilation failure")
	}
}

func TestRebuildManifestAccounting(t *testing.T) {
	manifests := newMemoryManifests()
	fsys := fstest.MapFS{
		"alpha.md": postSource("Alpha", "2025-01-10"),
		"beta.md":  postSource("Beta", "2025-01-12"),
	}
	svc := newTestService(t, Config{ContentRoot: "site"}, fsys, manifests)

	first, err := svc.Rebuild(context.Background(), Options{})
	if err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	if len(first.Created) != 2 || len(first.Updated) != 0 || len(first.Removed) != 0 {
		t.Fatalf("first pass should create everything: %#v", first)
	}

	changed := fstest.MapFS{
		"alpha.md": postSource("Alpha", "2025-01-10", "slug: 'alpha'"),
		"gamma.md": postSource("Gamma", "2025-01-14"),
	}
	next := newTestService(t, Config{ContentRoot: "site"}, changed, manifests)

	second, err := next.Rebuild(context.Background(), Options{})
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if len(second.Created) != 1 || second.Created[0] != "gamma" {
		t.Fatalf("expected gamma created, got %#v", second.Created)
	}
	if len(second.Updated) != 1 || second.Updated[0] != "alpha" {
		t.Fatalf("expected alpha updated, got %#v", second.Updated)
	}
	if len(second.Removed) != 1 || second.Removed[0] != "beta" {
		t.Fatalf("expected beta removed, got %#v", second.Removed)
	}

	latest, err := manifests.Latest(context.Background(), "site")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.EntryCount != 2 {
		t.Fatalf("expected recorded entry count 2, got %d", latest.EntryCount)
	}
	if latest.ID != second.BuildID {
		t.Fatalf("expected latest build to match the second pass")
	}
}

func TestRebuildDryRunSkipsManifestRecord(t *testing.T) {
	manifests := newMemoryManifests()
	svc := newTestService(t, Config{ContentRoot: "site"}, fstest.MapFS{
		"alpha.md": postSource("Alpha", "2025-01-10"),
	}, manifests)

	result, err := svc.Rebuild(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("dry run should still diff, got %#v", result.Created)
	}
	if _, err := manifests.Latest(context.Background(), "site"); !errors.Is(err, manifest.ErrBuildNotFound) {
		t.Fatalf("dry run must not record a build, got %v", err)
	}
}

type staticResolver struct {
	prefix string
	fail   map[string]bool
}

func (r staticResolver) Resolve(_ context.Context, ref string) (string, error) {
	if r.fail[ref] {
		return "", errors.New("asset not found")
	}
	return r.prefix + strings.TrimLeft(ref, "./"), nil
}

func TestRebuildResolvesHeroImages(t *testing.T) {
	fsys := fstest.MapFS{
		"with-hero.md": postSource("With Hero", "2025-01-10", "heroImage: '../assets/hero.webp'"),
		"broken.md":    postSource("Broken Hero", "2025-01-11", "heroImage: 'missing.webp'"),
		"plain.md":     postSource("Plain", "2025-01-12"),
	}
	svc := newTestService(t, Config{
		ContentRoot: "site",
		Assets: staticResolver{
			prefix: "https://cdn.example.com/",
			fail:   map[string]bool{"missing.webp": true},
		},
	}, fsys, nil)

	result, err := svc.Rebuild(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Published != 2 {
		t.Fatalf("expected unresolvable hero image to drop its entry, got %d published", result.Published)
	}
	if len(result.Failures) != 1 || result.Failures[0].Source != "broken.md" {
		t.Fatalf("expected broken.md failure, got %#v", result.Failures)
	}

	entry, ok := svc.Store().Current().Get("with-hero")
	if !ok {
		t.Fatalf("expected with-hero published")
	}
	if entry.HeroImage != "https://cdn.example.com/assets/hero.webp" {
		t.Fatalf("hero image not resolved: %q", entry.HeroImage)
	}
}

func TestRebuildRequiresMarkdownService(t *testing.T) {
	if _, err := NewService(Config{}, nil, nil, nil, nil); !errors.Is(err, ErrMarkdownServiceRequired) {
		t.Fatalf("expected ErrMarkdownServiceRequired, got %v", err)
	}
}
