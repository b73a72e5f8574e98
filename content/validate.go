package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/identity"
)

// Front-matter keys recognised by the typed schema. Anything else is carried
// through on Entry.Extra.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPubDate     = "pubDate"
	FieldPublishDate = "publishDate"
	FieldUpdatedDate = "updatedDate"
	FieldHeroImage   = "heroImage"
	FieldCategory    = "category"
	FieldTags        = "tags"
	FieldSlug        = "slug"
	FieldDraft       = "draft"
)

// PublishDateFormats is the accepted date grammar, tried in order. The list
// is fixed explicitly; dates without zone information are interpreted in UTC.
var PublishDateFormats = []string{
	time.RFC3339,
	"2006-01-02",
	"Jan 2 2006",
	"January 2 2006",
}

var typedFields = map[string]struct{}{
	FieldTitle:       {},
	FieldDescription: {},
	FieldPubDate:     {},
	FieldPublishDate: {},
	FieldUpdatedDate: {},
	FieldHeroImage:   {},
	FieldCategory:    {},
	FieldTags:        {},
	FieldSlug:        {},
	FieldDraft:       {},
}

// Validate turns one raw front-matter mapping into an Entry or a descriptive
// validation failure. Validation is pure: no I/O, deterministic for the same
// input. Every schema violation on the document is reported, not just the
// first.
func Validate(source string, raw RawFrontMatter) (*Entry, error) {
	if raw == nil {
		raw = RawFrontMatter{}
	}

	var errs []error

	title, err := requiredString(source, raw, FieldTitle)
	if err != nil {
		errs = append(errs, err)
	}
	description, err := requiredString(source, raw, FieldDescription)
	if err != nil {
		errs = append(errs, err)
	}
	category, err := requiredString(source, raw, FieldCategory)
	if err != nil {
		errs = append(errs, err)
	}

	publishDate, err := requiredDate(source, raw)
	if err != nil {
		errs = append(errs, err)
	}

	var updatedDate *time.Time
	if value, ok := raw[FieldUpdatedDate]; ok {
		parsed, parseErr := coerceDate(source, FieldUpdatedDate, value)
		if parseErr != nil {
			errs = append(errs, parseErr)
		} else {
			updatedDate = &parsed
		}
	}

	heroImage, err := optionalAsset(source, raw, FieldHeroImage)
	if err != nil {
		errs = append(errs, err)
	}

	tags, err := coerceTags(source, raw[FieldTags])
	if err != nil {
		errs = append(errs, err)
	}

	slugValue, err := DeriveSlug(stringOrEmpty(raw[FieldSlug]), title, source)
	if err != nil {
		// Slug derivation only fails when title is also unusable; the missing
		// title error already explains the document, so avoid doubling up.
		if title != "" {
			errs = append(errs, fmt.Errorf("%w: source=%s", ErrSlugInvalid, source))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	draft, _ := raw[FieldDraft].(bool)

	return &Entry{
		ID:          identity.EntryUUID(slugValue),
		Slug:        slugValue,
		Title:       title,
		Description: description,
		PublishDate: publishDate,
		UpdatedDate: updatedDate,
		HeroImage:   heroImage,
		Category:    category,
		Tags:        tags,
		Draft:       draft,
		Extra:       extraFields(raw),
		SourcePath:  source,
	}, nil
}

// ValidateAll validates every raw entry independently. Valid entries are
// returned in input order; failures are aggregated into a single BatchError
// so the caller sees the complete picture for the pass.
func ValidateAll(entries []RawEntry) ([]*Entry, error) {
	valid := make([]*Entry, 0, len(entries))
	var failures []EntryFailure

	for _, raw := range entries {
		entry, err := Validate(raw.Source, raw.Fields)
		if err != nil {
			failures = append(failures, EntryFailure{Source: raw.Source, Err: err})
			continue
		}
		valid = append(valid, entry)
	}

	if len(failures) > 0 {
		return valid, &BatchError{Failures: failures}
	}
	return valid, nil
}

func requiredString(source string, raw RawFrontMatter, field string) (string, error) {
	value, ok := raw[field]
	if !ok {
		return "", &MissingFieldError{Source: source, Field: field}
	}
	str, ok := value.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return "", &MissingFieldError{Source: source, Field: field}
	}
	return strings.TrimSpace(str), nil
}

func requiredDate(source string, raw RawFrontMatter) (time.Time, error) {
	field := FieldPubDate
	value, ok := raw[field]
	if !ok {
		field = FieldPublishDate
		value, ok = raw[field]
	}
	if !ok {
		return time.Time{}, &MissingFieldError{Source: source, Field: FieldPubDate}
	}
	return coerceDate(source, field, value)
}

func coerceDate(source, field string, value any) (time.Time, error) {
	switch typed := value.(type) {
	case time.Time:
		return typed.UTC(), nil
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return time.Time{}, &MissingFieldError{Source: source, Field: field}
		}
		for _, layout := range PublishDateFormats {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, &InvalidDateError{Source: source, Field: field, Value: trimmed}
	default:
		return time.Time{}, &InvalidDateError{Source: source, Field: field, Value: fmt.Sprint(value)}
	}
}

func coerceTags(source string, value any) ([]string, error) {
	if value == nil {
		return []string{}, nil
	}

	collect := func(raw []any) ([]string, error) {
		tags := make([]string, 0, len(raw))
		for _, item := range raw {
			str, ok := item.(string)
			if !ok || strings.TrimSpace(str) == "" {
				return nil, &InvalidTagError{Source: source, Value: item}
			}
			tags = append(tags, str)
		}
		return tags, nil
	}

	switch typed := value.(type) {
	case []string:
		for _, tag := range typed {
			if strings.TrimSpace(tag) == "" {
				return nil, &InvalidTagError{Source: source, Value: tag}
			}
		}
		return normalizeTags(typed), nil
	case []any:
		tags, err := collect(typed)
		if err != nil {
			return nil, err
		}
		return normalizeTags(tags), nil
	default:
		return nil, &InvalidTagError{Source: source, Value: value}
	}
}

func optionalAsset(source string, raw RawFrontMatter, field string) (string, error) {
	value, ok := raw[field]
	if !ok {
		return "", nil
	}
	str, ok := value.(string)
	if !ok {
		return "", &InvalidAssetError{Source: source, Value: fmt.Sprint(value)}
	}
	trimmed := strings.TrimSpace(str)
	if trimmed == "" || strings.ContainsRune(trimmed, '\x00') {
		return "", &InvalidAssetError{Source: source, Value: str}
	}
	return trimmed, nil
}

func stringOrEmpty(value any) string {
	str, _ := value.(string)
	return str
}

func extraFields(raw RawFrontMatter) map[string]any {
	extra := map[string]any{}
	for key, value := range raw {
		if _, ok := typedFields[key]; ok {
			continue
		}
		extra[key] = value
	}
	return extra
}
