package errors

import (
	stderrors "errors"
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
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"dump", DumpError("resources table missing").Build(), 9},
		{"output", OutputError("write failed").Build(), 11},
		{"wrapped dump", fmt.Errorf("run: %w", DumpError("unreadable").Build()), 9},
		{"unclassified", stderrors.New("boom"), 1},
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
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	cause := stderrors.New("permission denied")
	err := WrapError(cause, CategoryDump, "read dump").Fatal().Build()

	if got := quiet.FormatError(err); got != "Error: read dump: permission denied" {
		t.Errorf("unexpected quiet format: %q", got)
	}
	if got := verbose.FormatError(err); got != err.Error() {
		t.Errorf("verbose format should be full error, got %q", got)
	}
	if got := quiet.FormatError(InternalError("x").Build()); got != "Internal error occurred (use -v for details)" {
		t.Errorf("unexpected internal format: %q", got)
	}
	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("nil error should format empty, got %q", got)
	}
}
