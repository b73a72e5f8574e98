package sitecmd

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/internal/ingest"
)

const (
	rebuildSiteMessageType   = "blog.site.rebuild"
	generateFeedsMessageType = "blog.site.generate_feeds"
)

// RebuildSiteCommand triggers a full ingestion pass: discover documents under
// the content root, validate front matter, and swap in a fresh registry
// snapshot. Options map directly onto ingest.Options.
type RebuildSiteCommand struct {
	// Pattern overrides the configured discovery glob for this pass.
	Pattern string `json:"pattern,omitempty"`
	// IncludeDrafts overrides the configured draft policy when set.
	IncludeDrafts *bool `json:"include_drafts,omitempty"`
	// DryRun validates and diffs without swapping the snapshot or recording a manifest.
	DryRun bool `json:"dry_run,omitempty"`
	// Result receives the ingestion report after a successful pass.
	Result func(*ingest.Result) `json:"-"`
}

// Type implements command.Message.
func (RebuildSiteCommand) Type() string { return rebuildSiteMessageType }

// Validate ensures the pattern override, when present, is a usable glob.
func (cmd RebuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Pattern, validation.By(func(value any) error {
			pattern := strings.TrimSpace(value.(string))
			if pattern == "" {
				return nil
			}
			if !doublestar.ValidatePattern(pattern) {
				return validation.NewError("blog.site.rebuild.pattern_invalid", "pattern is not a valid glob")
			}
			return nil
		})),
	)
}

// GenerateFeedsCommand renders RSS documents from the current registry
// snapshot and hands them to the configured sink.
type GenerateFeedsCommand struct {
	// OutputDir is forwarded to the sink so it knows where documents belong.
	OutputDir string `json:"output_dir"`
}

// Type implements command.Message.
func (GenerateFeedsCommand) Type() string { return generateFeedsMessageType }

// Validate ensures an output directory is present before handlers execute.
func (cmd GenerateFeedsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.OutputDir, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.site.generate_feeds.output_dir_required", "output directory is required")
			}
			return nil
		})),
	)
}
