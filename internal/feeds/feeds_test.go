package feeds

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/content"
)

func buildRegistry(t *testing.T, entries ...*content.Entry) *content.Registry {
	t.Helper()
	registry, err := content.NewRegistry(entries)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return registry
}

func feedEntry(slug, category string, published time.Time) *content.Entry {
	entry, err := content.Validate("posts/"+slug+".md", content.RawFrontMatter{
		"title":       strings.ReplaceAll(slug, "-", " "),
		"description": "about " + slug,
		"pubDate":     published.Format(time.RFC3339),
		"category":    category,
	})
	if err != nil {
		panic(err)
	}
	return entry
}

func TestBuildProducesSiteAndCategoryFeeds(t *testing.T) {
	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	registry := buildRegistry(t,
		feedEntry("gpu-post", "Programming", now.AddDate(0, 0, -1)),
		feedEntry("trip-notes", "Travel Notes", now.AddDate(0, 0, -2)),
	)

	builder := NewBuilder(SiteMetadata{
		Title:       "Example Blog",
		Description: "Posts about things",
		BaseURL:     "https://blog.example.com/",
	}, nil)

	docs := builder.Build(registry, now)
	if len(docs) != 3 {
		t.Fatalf("expected site feed plus one per category, got %d", len(docs))
	}

	paths := map[string]string{}
	for _, doc := range docs {
		if doc.ContentType != "application/rss+xml" {
			t.Fatalf("unexpected content type %q", doc.ContentType)
		}
		paths[doc.Path] = doc.Body
	}

	site, ok := paths["feed.xml"]
	if !ok {
		t.Fatalf("missing site feed, got paths %#v", paths)
	}
	if !strings.Contains(site, "<link>https://blog.example.com/posts/gpu-post/</link>") {
		t.Fatalf("expected absolute entry link, got %q", site)
	}
	if !strings.Contains(site, "Sat, 01 Mar 2025") {
		t.Fatalf("expected RFC1123Z build date, got %q", site)
	}

	category, ok := paths["feeds/travel-notes.xml"]
	if !ok {
		t.Fatalf("expected slugged category feed, got %#v", paths)
	}
	if strings.Contains(category, "gpu-post") {
		t.Fatalf("category feed should only carry its own entries")
	}
	if !strings.Contains(category, "trip-notes") {
		t.Fatalf("category feed missing its entry: %q", category)
	}
}

func TestBuildEscapesMarkup(t *testing.T) {
	entry, err := content.Validate("posts/escape.md", content.RawFrontMatter{
		"title":       "Generics <T> & Friends",
		"description": "a < b && c > d",
		"pubDate":     "2025-01-05",
		"category":    "Programming",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	builder := NewBuilder(SiteMetadata{Title: "Blog"}, nil)
	docs := builder.Build(buildRegistry(t, entry), time.Now().UTC())

	if !strings.Contains(docs[0].Body, "Generics &lt;T&gt; &amp; Friends") {
		t.Fatalf("expected escaped title, got %q", docs[0].Body)
	}
}

func TestBuildEmptyRegistry(t *testing.T) {
	builder := NewBuilder(SiteMetadata{Title: "Blog"}, nil)

	if docs := builder.Build(nil, time.Now()); docs != nil {
		t.Fatalf("nil registry should produce no documents, got %d", len(docs))
	}
	if docs := builder.Build(buildRegistry(t), time.Now()); docs != nil {
		t.Fatalf("empty registry should produce no documents, got %d", len(docs))
	}
}

func TestBuildCapsItemCount(t *testing.T) {
	entries := make([]*content.Entry, 0, 120)
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		entries = append(entries, feedEntry(
			fmt.Sprintf("post-%03d", i),
			"Programming",
			base.Add(time.Duration(i)*time.Hour),
		))
	}

	builder := NewBuilder(SiteMetadata{Title: "Blog"}, nil)
	docs := builder.Build(buildRegistry(t, entries...), time.Now().UTC())

	site := docs[0].Body
	if got := strings.Count(site, "<item>"); got != 100 {
		t.Fatalf("expected feed capped at 100 items, got %d", got)
	}
}

func TestBuildHonorsConfiguredMaxItems(t *testing.T) {
	entries := make([]*content.Entry, 0, 5)
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entries = append(entries, feedEntry(
			fmt.Sprintf("post-%03d", i),
			"Programming",
			base.Add(time.Duration(i)*time.Hour),
		))
	}
	registry := buildRegistry(t, entries...)

	builder := NewBuilder(SiteMetadata{Title: "Blog"}, nil, WithMaxItems(2))
	docs := builder.Build(registry, time.Now().UTC())

	if got := strings.Count(docs[0].Body, "<item>"); got != 2 {
		t.Fatalf("expected 2 items with the configured cap, got %d", got)
	}
	if !strings.Contains(docs[0].Body, "post-004") || !strings.Contains(docs[0].Body, "post-003") {
		t.Fatalf("cap must keep the newest entries: %q", docs[0].Body)
	}

	loose := NewBuilder(SiteMetadata{Title: "Blog"}, nil, WithMaxItems(0))
	docs = loose.Build(registry, time.Now().UTC())
	if got := strings.Count(docs[0].Body, "<item>"); got != 5 {
		t.Fatalf("non-positive cap should fall back to the default, got %d items", got)
	}
}
