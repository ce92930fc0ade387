package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad target").Build(), expected: 2},
		{name: "filesystem", err: FileSystemError("missing file").Build(), expected: 3},
		{name: "parse", err: ParseError("bad front matter").Build(), expected: 4},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "internal", err: InternalError("refid missing").Build(), expected: 10},
		{name: "wrapped transform", err: fmt.Errorf("a.md: %w", TransformError("failed").Build()), expected: 11},
		{name: "unclassified", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := InternalError("target refid missing from section ids").
		WithContext("refid", "orphan").
		WithContext("ids", []string{"title"}).
		Build()

	quiet := NewCLIErrorAdapter(false, nil)
	if got := quiet.FormatError(err); got != "Internal error: target refid missing from section ids (use -v for details)" {
		t.Errorf("unexpected quiet format: %q", got)
	}

	verbose := NewCLIErrorAdapter(true, nil)
	want := "[internal:fatal] target refid missing from section ids\n  ids: [title]\n  refid: orphan"
	if got := verbose.FormatError(err); got != want {
		t.Errorf("unexpected verbose format:\n got: %q\nwant: %q", got, want)
	}

	if got := quiet.FormatError(errors.New("boom")); got != "Error: boom" {
		t.Errorf("unexpected unclassified format: %q", got)
	}
	if got := quiet.FormatError(ConfigError("workers must be positive").Build()); got != "Error: workers must be positive" {
		t.Errorf("unexpected config format: %q", got)
	}
}
