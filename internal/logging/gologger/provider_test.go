package gologger

import (
	"strings"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestNewProviderFormats(t *testing.T) {
	for _, format := range []string{"", "json", "console", "pretty", " Console "} {
		provider, err := NewProvider(Config{Level: "error", Format: format})
		if err != nil {
			t.Fatalf("NewProvider(%q): %v", format, err)
		}
		if provider.GetLogger("blog") == nil {
			t.Fatalf("expected logger for format %q", format)
		}
	}
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestNewProviderAcceptsEveryLevel(t *testing.T) {
	for _, level := range []string{"", "trace", "debug", "info", "warn", "warning", "error", "fatal", "WARN "} {
		if _, err := NewProvider(Config{Level: level, Format: "console"}); err != nil {
			t.Fatalf("NewProvider level %q: %v", level, err)
		}
	}
}

func TestGetLoggerNilProviderFallsBackToNoop(t *testing.T) {
	var provider *Provider
	logger := provider.GetLogger("blog")
	if logger == nil {
		t.Fatalf("nil provider must still hand out a logger")
	}
	logger.Info("discarded")
}

func TestAdapterWithFields(t *testing.T) {
	provider, err := NewProvider(Config{
		Level:     "error",
		Format:    "json",
		AddSource: true,
		Focus:     []string{" blog ", ""},
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	logger := provider.GetLogger("blog.ingest")
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		t.Fatalf("logger must implement interfaces.FieldsLogger")
	}
	scoped := fieldsLogger.WithFields(map[string]any{"pass": 1, "root": "content"})
	if scoped == nil {
		t.Fatalf("WithFields must return a logger")
	}
	scoped.Debug("suppressed at error level")

	if same := fieldsLogger.WithFields(nil); same != logger {
		t.Fatalf("empty field set should return the receiver")
	}
}
