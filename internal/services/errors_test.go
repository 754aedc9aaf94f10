package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"mediaforge/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExecutionFailure, "encoding", "run ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExecutionFailure) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"encoding", "run ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestKindOfMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.Kind
	}{
		{"nil", nil, services.KindNone},
		{"invalid input", services.Wrap(services.ErrInvalidInput, "batch", "validate", "missing", nil), services.KindInvalidInput},
		{"probe", services.Wrap(services.ErrProbeFailure, "probe", "", "", nil), services.KindProbeFailure},
		{"probe timeout", services.Wrap(services.ErrProbeFailure, "probe", "run", "", services.ErrTimeout), services.KindProbeFailure},
		{"duration", services.Wrap(services.ErrInvalidDuration, "bitrate", "", "", nil), services.KindInvalidDuration},
		{"unavailable", fmt.Errorf("outer: %w", services.ErrBackendUnavailable), services.KindBackendUnavailable},
		{"cancelled", services.Wrap(services.ErrCancelled, "batch", "", "", nil), services.KindCancelled},
		{"unmarked", errors.New("mystery"), services.KindExecutionFailure},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestToolErrorCarriesStderr(t *testing.T) {
	toolErr := &services.ToolError{Tool: "ffmpeg", ExitCode: 1, Stderr: "line one\n\nInvalid argument\n"}
	err := services.Wrap(services.ErrExecutionFailure, "encoding", "run ffmpeg", "", toolErr)

	if got := services.StderrOf(err); !strings.Contains(got, "Invalid argument") {
		t.Fatalf("expected stderr to be recoverable, got %q", got)
	}
	if !strings.Contains(err.Error(), "exited with code 1") {
		t.Fatalf("expected exit code in message, got %q", err.Error())
	}
	if services.IsTimeout(err) {
		t.Fatal("did not expect timeout classification")
	}
}

func TestStderrTailKeepsLastLines(t *testing.T) {
	got := services.StderrTail("a\nb\n\nc\nd\n", 2)
	if got != "c | d" {
		t.Fatalf("unexpected tail %q", got)
	}
	if services.StderrTail("", 3) != "" {
		t.Fatal("expected empty tail for empty stderr")
	}
}
