package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-blog/content"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ParseFrontMatter extracts the metadata mapping and Markdown body from the
// provided source bytes. The mapping is returned untyped; schema enforcement
// belongs to the content validator.
func ParseFrontMatter(source []byte) (content.RawFrontMatter, []byte, error) {
	var meta map[string]any

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return normalizeMapping(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML is intentionally left empty so
// callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		SourcePath:   path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

// normalizeMapping converts the yaml.v2 representation used by the
// front-matter decoder (map[interface{}]interface{} for nested mappings)
// into plain map[string]any values throughout.
func normalizeMapping(input map[string]any) content.RawFrontMatter {
	out := make(content.RawFrontMatter, len(input))
	for key, value := range input {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}
