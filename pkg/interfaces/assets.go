package interfaces

import "context"

// AssetResolver maps asset references found in front-matter (hero images,
// attachments) to verified asset locations. The content validator only checks
// that references are well-formed path strings; existence and resolution are
// the resolver's concern.
type AssetResolver interface {
	// Resolve returns the canonical location for the supplied reference or an
	// error when the asset cannot be found.
	Resolve(ctx context.Context, ref string) (string, error)
}
