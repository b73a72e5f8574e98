package feeds

import (
	"fmt"
	"html"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-blog/content"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultMaxItems = 100

// SiteMetadata describes the publishing site for feed channel headers.
type SiteMetadata struct {
	Title       string
	Description string
	BaseURL     string
}

// Document is one generated feed artifact, ready to be written by the caller.
type Document struct {
	Path        string
	ContentType string
	Body        string
}

// Builder renders RSS 2.0 documents from a registry snapshot: one site-wide
// feed plus one per category.
type Builder struct {
	site     SiteMetadata
	maxItems int
	logger   interfaces.Logger
}

// BuilderOption customises feed rendering.
type BuilderOption func(*Builder)

// WithMaxItems caps the number of items per rendered feed. Non-positive
// values keep the default cap.
func WithMaxItems(limit int) BuilderOption {
	return func(b *Builder) {
		if limit > 0 {
			b.maxItems = limit
		}
	}
}

// NewBuilder constructs a feed builder. Logger is optional.
func NewBuilder(site SiteMetadata, logger interfaces.Logger, opts ...BuilderOption) *Builder {
	if logger == nil {
		logger = logging.NoOp()
	}
	b := &Builder{
		site:     site,
		maxItems: defaultMaxItems,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders every feed for the snapshot. Entries keep registry order so
// feeds stay consistent with listing pages.
func (b *Builder) Build(registry *content.Registry, generatedAt time.Time) []Document {
	if registry == nil || registry.Len() == 0 {
		return nil
	}

	docs := []Document{{
		Path:        "feed.xml",
		ContentType: "application/rss+xml",
		Body:        b.renderRSS(b.site.Title, registry.Entries(), generatedAt),
	}}

	for _, category := range registry.Categories() {
		slug, err := content.NormalizeSlug(category)
		if err != nil || slug == "" {
			b.logger.Warn("feeds.category.skipped", "category", category)
			continue
		}
		title := strings.TrimSpace(b.site.Title)
		if title == "" {
			title = "feed"
		}
		docs = append(docs, Document{
			Path:        path.Join("feeds", slug+".xml"),
			ContentType: "application/rss+xml",
			Body:        b.renderRSS(fmt.Sprintf("%s: %s", title, category), registry.ByCategory(category), generatedAt),
		})
	}

	b.logger.Debug("feeds.build.complete", "documents", len(docs))
	return docs
}

func (b *Builder) renderRSS(title string, entries []*content.Entry, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(b.site.BaseURL)
	if len(entries) > b.maxItems {
		entries = entries[:b.maxItems]
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(b.site.Description)))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))

	for _, entry := range entries {
		pub := entry.PublishDate
		if pub.IsZero() {
			pub = generatedAt
		}
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(entry.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(entryLink(b.site.BaseURL, entry))))
		builder.WriteString(fmt.Sprintf("      <guid isPermaLink=\"false\">%s</guid>\n", escapeXML(entry.ID.String())))
		builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(entry.Description)))
		builder.WriteString(fmt.Sprintf("      <category>%s</category>\n", escapeXML(entry.Category)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		builder.WriteString("    </item>\n")
	}

	builder.WriteString("  </channel>\n")
	builder.WriteString("</rss>\n")
	return builder.String()
}

func entryLink(base string, entry *content.Entry) string {
	return absoluteURL(base, path.Join("posts", entry.Slug)+"/")
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
