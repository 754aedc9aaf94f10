package jobs_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"mediaforge/internal/jobs"
	"mediaforge/internal/services"
)

func TestNewAssetValidatesPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(file, []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	asset, err := jobs.NewAsset(file)
	if err != nil {
		t.Fatalf("NewAsset returned error: %v", err)
	}
	if asset.Path != file {
		t.Fatalf("unexpected path %q", asset.Path)
	}

	for _, bad := range []string{"", filepath.Join(dir, "missing.mp4"), dir} {
		if _, err := jobs.NewAsset(bad); !errors.Is(err, services.ErrInvalidInput) {
			t.Fatalf("NewAsset(%q) expected invalid input, got %v", bad, err)
		}
	}
}

func TestNewJobErrorClassifies(t *testing.T) {
	if jobs.NewJobError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	toolErr := &services.ToolError{Tool: "ffmpeg", ExitCode: 1, Stderr: "bad filter"}
	je := jobs.NewJobError(services.Wrap(services.ErrExecutionFailure, "encoding", "", "", toolErr))
	if je.Kind != services.KindExecutionFailure {
		t.Fatalf("unexpected kind %q", je.Kind)
	}
	if je.Stderr != "bad filter" {
		t.Fatalf("expected stderr to be preserved, got %q", je.Stderr)
	}
	if je.Timeout {
		t.Fatal("exit failure should not be marked as timeout")
	}
}

func TestNewJobErrorMarksTimeouts(t *testing.T) {
	toolErr := &services.ToolError{Tool: "ffprobe", ExitCode: -1}
	timedOut := fmt.Errorf("%w after 30s: %w", services.ErrTimeout, toolErr)

	je := jobs.NewJobError(services.Wrap(services.ErrProbeFailure, "probe", "clip.mp4", "", timedOut))
	if je.Kind != services.KindProbeFailure || !je.Timeout {
		t.Fatalf("expected probe_failure timeout, got %+v", je)
	}
	je = jobs.NewJobError(services.Wrap(services.ErrExecutionFailure, "encoding", "ffmpeg", "", timedOut))
	if je.Kind != services.KindExecutionFailure || !je.Timeout {
		t.Fatalf("expected execution_failure timeout, got %+v", je)
	}
}

func TestBatchStatus(t *testing.T) {
	ok := jobs.ItemResult{Result: jobs.Succeeded("out", jobs.BackendPrimary)}
	bad := jobs.ItemResult{Result: jobs.Failed("", jobs.BackendNone, services.ErrInvalidInput)}

	tests := []struct {
		items []jobs.ItemResult
		want  jobs.Status
	}{
		{nil, jobs.StatusComplete},
		{[]jobs.ItemResult{ok, ok}, jobs.StatusComplete},
		{[]jobs.ItemResult{ok, bad}, jobs.StatusPartialFailure},
		{[]jobs.ItemResult{bad, bad}, jobs.StatusFailed},
	}
	for _, tc := range tests {
		b := jobs.BatchResult{Items: tc.items, ProcessedCount: len(tc.items)}
		if got := b.Status(); got != tc.want {
			t.Fatalf("Status() = %q, want %q", got, tc.want)
		}
	}
}
