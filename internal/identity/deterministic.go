package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// EntryUUID returns the deterministic identifier for a content entry. The
// slug is the stable key, so re-ingesting the same source yields the same ID.
func EntryUUID(slug string) uuid.UUID {
	return UUID("go-blog:entry:" + strings.ToLower(strings.TrimSpace(slug)))
}

// BuildUUID returns the deterministic identifier for a build pass keyed by
// content root and pass timestamp.
func BuildUUID(root string, startedAt string) uuid.UUID {
	return UUID("go-blog:build:" + strings.TrimSpace(root) + ":" + strings.TrimSpace(startedAt))
}
