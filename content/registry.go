package content

import (
	"errors"
	"sort"
	"strings"
)

// Registry holds the full set of validated entries for one build pass. It is
// immutable after construction: loading new content produces a fresh registry
// rather than mutating this one, so concurrent readers never observe a
// partially-loaded state.
type Registry struct {
	entries []*Entry
	bySlug  map[string]*Entry
}

// NewRegistry builds a registry from the supplied entries. The whole batch is
// rejected when two entries share a slug; every colliding slug is reported,
// not just the first. Iteration order is publish date descending with ties
// broken by slug ascending, independent of input order.
func NewRegistry(entries []*Entry) (*Registry, error) {
	ordered := make([]*Entry, 0, len(entries))
	bySlug := make(map[string]*Entry, len(entries))
	sources := make(map[string][]string, len(entries))

	for _, entry := range entries {
		if entry == nil {
			continue
		}
		sources[entry.Slug] = append(sources[entry.Slug], entry.SourcePath)
		if _, ok := bySlug[entry.Slug]; ok {
			continue
		}
		bySlug[entry.Slug] = entry
		ordered = append(ordered, entry)
	}

	var dupErrs []error
	for slug, paths := range sources {
		if len(paths) > 1 {
			sort.Strings(paths)
			dupErrs = append(dupErrs, &DuplicateSlugError{Slug: slug, Sources: paths})
		}
	}
	if len(dupErrs) > 0 {
		sort.Slice(dupErrs, func(i, j int) bool {
			return dupErrs[i].Error() < dupErrs[j].Error()
		})
		return nil, errors.Join(dupErrs...)
	}

	sort.Slice(ordered, func(i, j int) bool {
		left, right := ordered[i], ordered[j]
		if !left.PublishDate.Equal(right.PublishDate) {
			return left.PublishDate.After(right.PublishDate)
		}
		return left.Slug < right.Slug
	})

	return &Registry{entries: ordered, bySlug: bySlug}, nil
}

// Len returns the number of entries in the registry.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns the full ordering. The slice is a copy; the entries it
// points to are shared immutable values.
func (r *Registry) Entries() []*Entry {
	if r == nil {
		return nil
	}
	return append([]*Entry(nil), r.entries...)
}

// Get looks up a single entry by slug.
func (r *Registry) Get(slug string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	entry, ok := r.bySlug[slug]
	return entry, ok
}

// ByCategory returns every entry with the supplied category label, in
// registry order. Matching is case-insensitive.
func (r *Registry) ByCategory(category string) []*Entry {
	if r == nil {
		return nil
	}
	category = strings.TrimSpace(category)
	out := make([]*Entry, 0)
	for _, entry := range r.entries {
		if strings.EqualFold(entry.Category, category) {
			out = append(out, entry)
		}
	}
	return out
}

// ByTag returns every entry whose tag set contains the supplied tag, in
// registry order.
func (r *Registry) ByTag(tag string) []*Entry {
	if r == nil {
		return nil
	}
	out := make([]*Entry, 0)
	for _, entry := range r.entries {
		if entry.HasTag(tag) {
			out = append(out, entry)
		}
	}
	return out
}

// Page returns a slice of the full ordering. A negative offset or a
// non-positive limit fails with InvalidPageError; an offset past the end
// yields an empty page.
func (r *Registry) Page(offset, limit int) ([]*Entry, error) {
	if offset < 0 || limit <= 0 {
		return nil, &InvalidPageError{Offset: offset, Limit: limit}
	}
	if r == nil || offset >= len(r.entries) {
		return []*Entry{}, nil
	}
	end := offset + limit
	if end > len(r.entries) {
		end = len(r.entries)
	}
	return append([]*Entry(nil), r.entries[offset:end]...), nil
}

// Categories lists the distinct category labels present in the registry,
// sorted. Label casing follows the first occurrence in registry order.
func (r *Registry) Categories() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]string, len(r.entries))
	for _, entry := range r.entries {
		key := strings.ToLower(entry.Category)
		if _, ok := seen[key]; !ok {
			seen[key] = entry.Category
		}
	}
	out := make([]string, 0, len(seen))
	for _, label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// TagSet lists the distinct tags present in the registry, sorted.
func (r *Registry) TagSet() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]string)
	for _, entry := range r.entries {
		for _, tag := range entry.Tags {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; !ok {
				seen[key] = tag
			}
		}
	}
	out := make([]string, 0, len(seen))
	for _, tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
