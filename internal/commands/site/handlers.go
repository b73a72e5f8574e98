package sitecmd

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-blog/content"
	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/ingest"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	rebuildOperation       = "site.rebuild"
	generateFeedsOperation = "site.generate_feeds"
)

var (
	// ErrIngestServiceRequired is returned when a rebuild handler is built without a pipeline.
	ErrIngestServiceRequired = errors.New("site command: ingest service is required")
	// ErrFeedBuilderRequired is returned when a feeds handler is built without a builder.
	ErrFeedBuilderRequired = errors.New("site command: feed builder is required")
	// ErrFeedSinkRequired is returned when a feeds handler is built without a sink.
	ErrFeedSinkRequired = errors.New("site command: feed sink is required")
)

var (
	_ command.Commander[RebuildSiteCommand]   = (*RebuildSiteHandler)(nil)
	_ command.Commander[GenerateFeedsCommand] = (*GenerateFeedsHandler)(nil)
)

// FeedSink receives rendered feed documents. The CLI wires a filesystem
// writer; tests wire an in-memory collector.
type FeedSink func(ctx context.Context, outputDir string, doc feeds.Document) error

// RebuildSiteHandler orchestrates ingestion passes via the shared command handler foundation.
type RebuildSiteHandler struct {
	inner *commands.Handler[RebuildSiteCommand]
}

// NewRebuildSiteHandler creates a handler bound to the supplied ingestion pipeline.
func NewRebuildSiteHandler(service *ingest.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RebuildSiteCommand]) *RebuildSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RebuildSiteCommand) error {
		if service == nil {
			return ErrIngestServiceRequired
		}

		result, err := service.Rebuild(ctx, ingest.Options{
			DryRun:        msg.DryRun,
			Pattern:       msg.Pattern,
			IncludeDrafts: msg.IncludeDrafts,
		})
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"build_id":       result.BuildID,
			"published":      result.Published,
			"failed":         len(result.Failures),
			"drafts_skipped": result.DraftsSkipped,
			"dry_run":        msg.DryRun,
		}).Info("site.command.rebuild.completed")

		if msg.Result != nil {
			msg.Result(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RebuildSiteCommand]{
		commands.WithLogger[RebuildSiteCommand](baseLogger),
		commands.WithOperation[RebuildSiteCommand](rebuildOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RebuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RebuildSiteCommand].
func (h *RebuildSiteHandler) Execute(ctx context.Context, msg RebuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// GenerateFeedsHandler renders feeds from the current snapshot and forwards
// each document to the sink.
type GenerateFeedsHandler struct {
	inner *commands.Handler[GenerateFeedsCommand]
}

// NewGenerateFeedsHandler creates a handler bound to the supplied builder, store, and sink.
func NewGenerateFeedsHandler(builder *feeds.Builder, store *content.Store, sink FeedSink, logger interfaces.Logger, opts ...commands.HandlerOption[GenerateFeedsCommand]) *GenerateFeedsHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg GenerateFeedsCommand) error {
		if builder == nil {
			return ErrFeedBuilderRequired
		}
		if sink == nil {
			return ErrFeedSinkRequired
		}

		var registry *content.Registry
		if store != nil {
			registry = store.Current()
		}

		docs := builder.Build(registry, time.Now().UTC())
		for _, doc := range docs {
			if err := sink(ctx, msg.OutputDir, doc); err != nil {
				return err
			}
		}

		logging.WithFields(baseLogger, map[string]any{
			"documents":  len(docs),
			"output_dir": msg.OutputDir,
		}).Info("site.command.generate_feeds.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[GenerateFeedsCommand]{
		commands.WithLogger[GenerateFeedsCommand](baseLogger),
		commands.WithOperation[GenerateFeedsCommand](generateFeedsOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GenerateFeedsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[GenerateFeedsCommand].
func (h *GenerateFeedsHandler) Execute(ctx context.Context, msg GenerateFeedsCommand) error {
	return h.inner.Execute(ctx, msg)
}
