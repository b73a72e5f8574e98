package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrContentDirRequired     = runtimeconfig.ErrContentDirRequired
	ErrPatternInvalid         = runtimeconfig.ErrPatternInvalid
	ErrFeedsOutputDirRequired = runtimeconfig.ErrFeedsOutputDirRequired
	ErrFeedsMaxItemsInvalid   = runtimeconfig.ErrFeedsMaxItemsInvalid
	ErrManifestDSNRequired    = runtimeconfig.ErrManifestDSNRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	ContentConfig  = runtimeconfig.ContentConfig
	SiteConfig     = runtimeconfig.SiteConfig
	FeedsConfig    = runtimeconfig.FeedsConfig
	ManifestConfig = runtimeconfig.ManifestConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

// DefaultConfig returns opinionated defaults for an embedded blog engine.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
