package content

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStoreStartsEmpty(t *testing.T) {
	store := NewStore()

	registry := store.Current()
	if registry == nil {
		t.Fatalf("expected a seeded registry, got nil")
	}
	if registry.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", registry.Len())
	}
}

func TestStoreSwapReturnsPrevious(t *testing.T) {
	store := NewStore()
	initial := store.Current()

	next, err := NewRegistry([]*Entry{testEntry("fresh", day(0), "Notes")})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	previous := store.Swap(next)
	if previous != initial {
		t.Fatalf("Swap should hand back the replaced snapshot")
	}
	if store.Current() != next {
		t.Fatalf("Swap should install the new snapshot")
	}
}

func TestStoreSwapNilInstallsEmpty(t *testing.T) {
	store := NewStore()
	if _, err := store.Replace([]*Entry{testEntry("a", day(0), "Notes")}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	store.Swap(nil)
	if store.Current() == nil || store.Current().Len() != 0 {
		t.Fatalf("nil swap should install an empty snapshot")
	}
}

func TestStoreReplaceKeepsSnapshotOnFailure(t *testing.T) {
	store := NewStore()
	good, err := store.Replace([]*Entry{testEntry("keep", day(0), "Notes")})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	one := testEntry("dup", day(1), "Notes")
	two := testEntry("dup", day(2), "Notes")
	two.SourcePath = "drafts/dup.md"

	if _, err := store.Replace([]*Entry{one, two}); !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug failure, got %v", err)
	}
	if store.Current() != good {
		t.Fatalf("failed replace must leave the current snapshot untouched")
	}
}

func TestStoreConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				registry := store.Current()
				entries := registry.Entries()
				// a snapshot is either the empty seed or a complete build
				if len(entries) != 0 && len(entries) != 3 {
					t.Errorf("observed partial snapshot with %d entries", len(entries))
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		batch := []*Entry{
			testEntry("a", day(0).Add(time.Duration(i)*time.Second), "Notes"),
			testEntry("b", day(1), "Notes"),
			testEntry("c", day(2), "Notes"),
		}
		if _, err := store.Replace(batch); err != nil {
			t.Fatalf("Replace: %v", err)
		}
	}

	close(stop)
	wg.Wait()
}
