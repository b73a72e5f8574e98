package content

import "sync/atomic"

// Store holds the active registry snapshot for a site. Reads never block:
// queries run against whichever immutable snapshot was current when they
// started, and a rebuild installs its replacement with a single atomic
// pointer swap.
type Store struct {
	current atomic.Pointer[Registry]
}

// NewStore returns a store seeded with an empty registry so readers never
// need a nil check before their first load.
func NewStore() *Store {
	store := &Store{}
	empty, _ := NewRegistry(nil)
	store.current.Store(empty)
	return store
}

// Current returns the active snapshot.
func (s *Store) Current() *Registry {
	if s == nil {
		return nil
	}
	return s.current.Load()
}

// Swap installs the supplied registry as the active snapshot and returns the
// previous one. A nil registry is replaced with an empty snapshot.
func (s *Store) Swap(registry *Registry) *Registry {
	if registry == nil {
		registry, _ = NewRegistry(nil)
	}
	return s.current.Swap(registry)
}

// Replace builds a registry from the entries and swaps it in atomically. On
// failure the current snapshot is left untouched.
func (s *Store) Replace(entries []*Entry) (*Registry, error) {
	registry, err := NewRegistry(entries)
	if err != nil {
		return nil, err
	}
	s.Swap(registry)
	return registry, nil
}
