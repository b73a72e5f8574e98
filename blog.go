// Package blog is an embeddable content engine for Markdown blogs. It
// discovers documents under a content root, validates their front matter,
// publishes immutable registry snapshots, and renders RSS feeds from them.
package blog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blog/content"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/ingest"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/manifest"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Entry exports the published entry type for consumers of the blog package.
type Entry = content.Entry

// Registry exports the immutable snapshot consumers query.
type Registry = content.Registry

// RebuildOptions exports per-pass overrides for ingestion.
type RebuildOptions = ingest.Options

// RebuildResult exports the ingestion pass report.
type RebuildResult = ingest.Result

// FeedDocument exports a rendered feed artifact.
type FeedDocument = feeds.Document

// Module is the top level engine facade. It owns the snapshot store, the
// ingestion pipeline, and the feed builder.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	markdown *markdown.Service
	store    *content.Store
	ingest   *ingest.Service
	feeds    *feeds.Builder
	db       *bun.DB

	rebuildHandler *sitecmd.RebuildSiteHandler
}

// Option customises engine assembly beyond what the serialisable Config covers.
type Option func(*moduleOptions)

type moduleOptions struct {
	assets interfaces.AssetResolver
}

// WithAssetResolver installs a resolver for hero image references. Without
// one, references are published as written.
func WithAssetResolver(resolver interfaces.AssetResolver) Option {
	return func(o *moduleOptions) {
		o.assets = resolver
	}
}

// New constructs a blog engine from the supplied configuration. The content
// directory must exist. When the manifest is enabled the sqlite database is
// opened and its tables are created eagerly.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options moduleOptions
	for _, opt := range opts {
		opt(&options)
	}

	provider, err := buildLoggerProvider(cfg.Logging)
	if err != nil {
		return nil, err
	}

	md, err := markdown.NewService(markdown.Config{
		BasePath:  cfg.Content.Dir,
		Pattern:   cfg.Content.Pattern,
		Recursive: true,
		Parser: interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			Sanitize:   cfg.Markdown.Sanitize,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	store := content.NewStore()

	var db *bun.DB
	var manifests manifest.Repository
	if cfg.Manifest.Enabled {
		sqldb, err := sql.Open("sqlite3", cfg.Manifest.DSN)
		if err != nil {
			return nil, fmt.Errorf("blog: open manifest database: %w", err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
		repo := manifest.NewBunRepository(db)
		if err := repo.Init(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("blog: init manifest tables: %w", err)
		}
		manifests = repo
	}

	svc, err := ingest.NewService(ingest.Config{
		ContentRoot:   cfg.Content.Dir,
		Pattern:       cfg.Content.Pattern,
		IncludeDrafts: cfg.Content.IncludeDrafts,
		ExtraSchema:   cfg.Content.ExtraSchema,
		Assets:        options.assets,
	}, md, store, manifests, logging.IngestLogger(provider))
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	builder := feeds.NewBuilder(feeds.SiteMetadata{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		BaseURL:     cfg.Site.BaseURL,
	}, logging.FeedsLogger(provider), feeds.WithMaxItems(cfg.Feeds.MaxItems))

	m := &Module{
		cfg:      cfg,
		provider: provider,
		markdown: md,
		store:    store,
		ingest:   svc,
		feeds:    builder,
		db:       db,
	}
	m.rebuildHandler = sitecmd.NewRebuildSiteHandler(svc, logging.CommandsLogger(provider))
	return m, nil
}

// Store exposes the snapshot store. Readers call Store().Current() and query
// the returned registry for as long as they need a consistent view.
func (m *Module) Store() *content.Store {
	return m.store
}

// Registry returns the current published snapshot.
func (m *Module) Registry() *Registry {
	return m.store.Current()
}

// Markdown exposes the underlying Markdown service for standalone rendering.
func (m *Module) Markdown() *markdown.Service {
	return m.markdown
}

// Rebuild runs a full ingestion pass through the command layer so validation,
// logging, and timeouts apply uniformly.
func (m *Module) Rebuild(ctx context.Context, opts RebuildOptions) (*RebuildResult, error) {
	var result *RebuildResult
	cmd := sitecmd.RebuildSiteCommand{
		Pattern:       opts.Pattern,
		IncludeDrafts: opts.IncludeDrafts,
		DryRun:        opts.DryRun,
		Result: func(r *ingest.Result) {
			result = r
		},
	}
	if err := m.rebuildHandler.Execute(ctx, cmd); err != nil {
		return nil, err
	}
	return result, nil
}

// BuildFeeds renders RSS documents from the current snapshot. The caller
// decides where they go; the CLI writes them under the feeds output directory.
func (m *Module) BuildFeeds(generatedAt time.Time) []FeedDocument {
	return m.feeds.Build(m.store.Current(), generatedAt)
}

// FeedHandler builds a command handler that renders feeds into the supplied sink.
func (m *Module) FeedHandler(sink sitecmd.FeedSink) *sitecmd.GenerateFeedsHandler {
	return sitecmd.NewGenerateFeedsHandler(m.feeds, m.store, sink, logging.CommandsLogger(m.provider))
}

// Logger returns a namespaced logger from the engine's provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, name)
}

// Close releases engine resources. Safe to call on a nil module.
func (m *Module) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

func buildLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "noop":
		return nil, nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}
