package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *RoundError
		contains []string
	}{
		{
			name:     "with cause",
			err:      &RoundError{Reason: ReasonTimeout, Err: ErrTimeout},
			contains: []string{"round failed", "timeout", "stable answer"},
		},
		{
			name:     "without cause",
			err:      &RoundError{Reason: ReasonInputNotFound},
			contains: []string{"round failed", "input-not-found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("RoundError.Error() = %q, should contain %q", msg, want)
				}
			}
		})
	}

	wrapped := fmt.Errorf("ask: %w", &RoundError{Reason: ReasonTimeout, Err: ErrTimeout})
	if !errors.Is(wrapped, ErrTimeout) {
		t.Error("RoundError.Unwrap() should expose ErrTimeout")
	}
}

func TestReasonOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureReason
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"round error", &RoundError{Reason: ReasonRedirectedToSignIn}, ReasonRedirectedToSignIn},
		{"wrapped round error", fmt.Errorf("outer: %w", &RoundError{Reason: ReasonNotAuthenticated}), ReasonNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReasonOf(tt.err); got != tt.want {
				t.Errorf("ReasonOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/test/catalog.db",
		Op:   "open",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/catalog.db") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("invalid YAML")
	err := &ParseError{
		Source: "config",
		Key:    "config.yaml",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "parse error") {
		t.Errorf("ParseError.Error() should contain 'parse error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "config.yaml") {
		t.Errorf("ParseError.Error() should contain key, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ParseError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/boards.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
