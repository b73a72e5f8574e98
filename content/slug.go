package content

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"
)

// SlugNormalizer exposes the slug normalizer interface.
type SlugNormalizer = slug.Normalizer

// DefaultSlugNormalizer returns the default slug normalizer.
func DefaultSlugNormalizer() SlugNormalizer {
	return slug.Default()
}

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// DeriveSlug picks the stable identifier for an entry. An explicit
// front-matter slug wins, then the title, then the source file name. The
// result is always normalized; an input that normalizes to nothing yields
// ErrSlugInvalid.
func DeriveSlug(explicit, title, source string) (string, error) {
	for _, candidate := range []string{explicit, title, sourceStem(source)} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		normalized, err := NormalizeSlug(candidate)
		if err != nil || normalized == "" {
			continue
		}
		if !IsValidSlug(normalized) {
			continue
		}
		return normalized, nil
	}
	return "", ErrSlugInvalid
}

func sourceStem(source string) string {
	base := path.Base(strings.ReplaceAll(source, "\\", "/"))
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "." || base == "/" {
		return ""
	}
	return base
}
