package content

import (
	"errors"
	"testing"
)

func TestDeriveSlugPrecedence(t *testing.T) {
	got, err := DeriveSlug("Explicit Slug", "Some Title", "posts/file-name.md")
	if err != nil {
		t.Fatalf("DeriveSlug: %v", err)
	}
	if got != "explicit-slug" {
		t.Fatalf("explicit slug should win, got %q", got)
	}

	got, err = DeriveSlug("", "Some Title", "posts/file-name.md")
	if err != nil {
		t.Fatalf("DeriveSlug: %v", err)
	}
	if got != "some-title" {
		t.Fatalf("title should be next, got %q", got)
	}

	got, err = DeriveSlug("", "", "posts/file-name.md")
	if err != nil {
		t.Fatalf("DeriveSlug: %v", err)
	}
	if got != "file-name" {
		t.Fatalf("source stem should be the fallback, got %q", got)
	}
}

func TestDeriveSlugFailsWhenNothingUsable(t *testing.T) {
	if _, err := DeriveSlug("", "", ""); !errors.Is(err, ErrSlugInvalid) {
		t.Fatalf("expected ErrSlugInvalid, got %v", err)
	}
}

func TestNormalizeSlug(t *testing.T) {
	got, err := NormalizeSlug("SYCL-OpenGL Interoperability")
	if err != nil {
		t.Fatalf("NormalizeSlug: %v", err)
	}
	if got != "sycl-opengl-interoperability" {
		t.Fatalf("unexpected normalisation: %q", got)
	}
	if !IsValidSlug(got) {
		t.Fatalf("normalised slug should validate: %q", got)
	}
}
