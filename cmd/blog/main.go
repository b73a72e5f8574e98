package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	blog "github.com/goliatone/go-blog"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
	"github.com/goliatone/go-blog/internal/feeds"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("blog: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("blog", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	contentDir := fs.String("content-dir", "", "Path to the markdown content root (overrides config)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering markdown files (overrides config)")
	baseURL := fs.String("base-url", "", "Site base URL used for links in generated feeds (overrides config)")
	outputDir := fs.String("out", "", "Directory feed documents are written to (overrides config)")
	assetsDir := fs.String("assets-dir", "", "Directory hero image references must resolve within (optional)")
	includeDrafts := fs.Bool("include-drafts", false, "Publish entries marked draft")
	dryRun := fs.Bool("dry-run", false, "Validate and diff without publishing or writing anything")
	watch := fs.Bool("watch", false, "Stay running and rebuild when content files change")
	debounce := fs.Duration("debounce", 500*time.Millisecond, "Quiet period before a watch-triggered rebuild")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := blog.DefaultConfig()
	if *configPath != "" {
		loaded, err := blog.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}
	if *pattern != "" {
		cfg.Content.Pattern = *pattern
	}
	if *baseURL != "" {
		cfg.Site.BaseURL = *baseURL
	}
	if *outputDir != "" {
		cfg.Feeds.OutputDir = *outputDir
	}
	if *includeDrafts {
		cfg.Content.IncludeDrafts = true
	}

	var opts []blog.Option
	if *assetsDir != "" {
		opts = append(opts, blog.WithAssetResolver(dirResolver{root: *assetsDir}))
	}

	module, err := blog.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer module.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rebuildAndPublish(ctx, module, cfg, *dryRun); err != nil {
		return err
	}

	if !*watch {
		return nil
	}
	return watchLoop(ctx, module, cfg, *debounce)
}

func rebuildAndPublish(ctx context.Context, module *blog.Module, cfg blog.Config, dryRun bool) error {
	result, err := module.Rebuild(ctx, blog.RebuildOptions{DryRun: dryRun})
	if err != nil {
		return err
	}

	fmt.Printf("published %d entries (%d failed, %d drafts skipped)\n",
		result.Published, len(result.Failures), result.DraftsSkipped)
	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", failure.Source, failure.Err)
	}

	if dryRun || !cfg.Feeds.Enabled {
		return nil
	}

	handler := module.FeedHandler(writeFeedDocument)
	return handler.Execute(ctx, sitecmd.GenerateFeedsCommand{OutputDir: cfg.Feeds.OutputDir})
}

// dirResolver resolves hero image references against a single assets
// directory and requires the file to exist.
type dirResolver struct {
	root string
}

func (r dirResolver) Resolve(_ context.Context, ref string) (string, error) {
	cleaned := filepath.Join(r.root, filepath.Base(filepath.FromSlash(ref)))
	if _, err := os.Stat(cleaned); err != nil {
		return "", fmt.Errorf("asset %s: %w", ref, err)
	}
	return filepath.ToSlash(cleaned), nil
}

func writeFeedDocument(_ context.Context, outputDir string, doc feeds.Document) error {
	target := filepath.Join(outputDir, filepath.FromSlash(doc.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(doc.Body), 0o644)
}

// watchLoop rebuilds after filesystem events settle for the debounce window.
// Directories created while watching are added to the watcher so nested
// content keeps triggering rebuilds.
func watchLoop(ctx context.Context, module *blog.Module, cfg blog.Config, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, cfg.Content.Dir); err != nil {
		return err
	}

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			if !relevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		case <-pending:
			pending = nil
			if err := rebuildAndPublish(ctx, module, cfg, false); err != nil {
				fmt.Fprintf(os.Stderr, "rebuild: %v\n", err)
			}
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := strings.ToLower(event.Name)
	if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") {
		return true
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
