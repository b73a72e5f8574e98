package manifest

import (
	"reflect"
	"testing"
)

func TestDiffEntries(t *testing.T) {
	previous := []EntryRecord{
		{Slug: "kept", Checksum: "11"},
		{Slug: "changed", Checksum: "22"},
		{Slug: "gone", Checksum: "33"},
	}
	current := []EntryRecord{
		{Slug: "kept", Checksum: "11"},
		{Slug: "changed", Checksum: "99"},
		{Slug: "brand-new", Checksum: "44"},
	}

	diff := DiffEntries(previous, current)

	if !reflect.DeepEqual(diff.Created, []string{"brand-new"}) {
		t.Fatalf("Created mismatch: %#v", diff.Created)
	}
	if !reflect.DeepEqual(diff.Updated, []string{"changed"}) {
		t.Fatalf("Updated mismatch: %#v", diff.Updated)
	}
	if !reflect.DeepEqual(diff.Unchanged, []string{"kept"}) {
		t.Fatalf("Unchanged mismatch: %#v", diff.Unchanged)
	}
	if !reflect.DeepEqual(diff.Removed, []string{"gone"}) {
		t.Fatalf("Removed mismatch: %#v", diff.Removed)
	}
}

func TestDiffEntriesFirstBuild(t *testing.T) {
	diff := DiffEntries(nil, []EntryRecord{
		{Slug: "b", Checksum: "2"},
		{Slug: "a", Checksum: "1"},
	})

	if !reflect.DeepEqual(diff.Created, []string{"a", "b"}) {
		t.Fatalf("expected everything created and sorted, got %#v", diff.Created)
	}
	if len(diff.Updated)+len(diff.Unchanged)+len(diff.Removed) != 0 {
		t.Fatalf("unexpected non-created buckets: %#v", diff)
	}
}
