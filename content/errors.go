package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrMissingField  = errors.New("content: required front-matter field is missing")
	ErrInvalidDate   = errors.New("content: date does not match an accepted format")
	ErrInvalidTag    = errors.New("content: tags must be non-empty strings")
	ErrInvalidAsset  = errors.New("content: asset reference is not a valid path")
	ErrSlugInvalid   = errors.New("content: slug contains invalid characters")
	ErrDuplicateSlug = errors.New("content: slug already exists")
	ErrInvalidPage   = errors.New("content: page window is invalid")
)

// MissingFieldError reports a required front-matter field that was absent or
// blank on a document.
type MissingFieldError struct {
	Source string
	Field  string
}

func (e *MissingFieldError) Error() string {
	if e == nil {
		return ErrMissingField.Error()
	}
	if e.Source != "" {
		return fmt.Sprintf("%s: field=%s source=%s", ErrMissingField.Error(), e.Field, e.Source)
	}
	return fmt.Sprintf("%s: field=%s", ErrMissingField.Error(), e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// InvalidDateError reports a date value that did not parse under the accepted
// date grammar.
type InvalidDateError struct {
	Source string
	Field  string
	Value  string
}

func (e *InvalidDateError) Error() string {
	if e == nil {
		return ErrInvalidDate.Error()
	}
	return fmt.Sprintf("%s: field=%s value=%q", ErrInvalidDate.Error(), e.Field, e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// InvalidTagError reports a tags value that is not a sequence of non-empty
// strings.
type InvalidTagError struct {
	Source string
	Value  any
}

func (e *InvalidTagError) Error() string {
	if e == nil {
		return ErrInvalidTag.Error()
	}
	return fmt.Sprintf("%s: value=%v", ErrInvalidTag.Error(), e.Value)
}

func (e *InvalidTagError) Unwrap() error {
	return ErrInvalidTag
}

// InvalidAssetError reports a hero image reference that is present but not a
// usable path string. Asset existence is checked by the resolver collaborator,
// never here.
type InvalidAssetError struct {
	Source string
	Value  string
}

func (e *InvalidAssetError) Error() string {
	if e == nil {
		return ErrInvalidAsset.Error()
	}
	return fmt.Sprintf("%s: value=%q", ErrInvalidAsset.Error(), e.Value)
}

func (e *InvalidAssetError) Unwrap() error {
	return ErrInvalidAsset
}

// DuplicateSlugError reports a slug shared by two or more entries submitted
// to a registry load.
type DuplicateSlugError struct {
	Slug    string
	Sources []string
}

func (e *DuplicateSlugError) Error() string {
	if e == nil {
		return ErrDuplicateSlug.Error()
	}
	if len(e.Sources) > 0 {
		return fmt.Sprintf("%s: slug=%s sources=%s", ErrDuplicateSlug.Error(), e.Slug, strings.Join(e.Sources, ", "))
	}
	return fmt.Sprintf("%s: slug=%s", ErrDuplicateSlug.Error(), e.Slug)
}

func (e *DuplicateSlugError) Unwrap() error {
	return ErrDuplicateSlug
}

// InvalidPageError reports a pagination window with a negative offset or a
// non-positive limit.
type InvalidPageError struct {
	Offset int
	Limit  int
}

func (e *InvalidPageError) Error() string {
	if e == nil {
		return ErrInvalidPage.Error()
	}
	return fmt.Sprintf("%s: offset=%d limit=%d", ErrInvalidPage.Error(), e.Offset, e.Limit)
}

func (e *InvalidPageError) Unwrap() error {
	return ErrInvalidPage
}

// EntryFailure pairs a failed document with its validation error.
type EntryFailure struct {
	Source string
	Err    error
}

// BatchError aggregates every validation failure observed in one ingestion
// pass. Entries are validated independently, so a single bad document never
// hides failures in the rest of the batch.
type BatchError struct {
	Failures []EntryFailure
}

func (e *BatchError) Error() string {
	if e == nil || len(e.Failures) == 0 {
		return "content: batch validation failed"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		if failure.Err == nil {
			continue
		}
		parts = append(parts, failure.Err.Error())
	}
	return fmt.Sprintf("content: batch validation failed (%d): %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures so errors.Is and errors.As can match
// against the sentinel and typed errors above.
func (e *BatchError) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		if failure.Err != nil {
			out = append(out, failure.Err)
		}
	}
	return out
}

// Sources lists the documents that failed, sorted for stable reporting.
func (e *BatchError) Sources() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		out = append(out, failure.Source)
	}
	sort.Strings(out)
	return out
}
