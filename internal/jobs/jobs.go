// Package jobs holds the result types shared by the executors, the batch
// orchestrator, the history store, and the CLI.
package jobs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"mediaforge/internal/services"
)

// MediaAsset is an immutable handle on an input file.
type MediaAsset struct {
	Path string
}

// NewAsset validates that path names an existing readable regular file.
func NewAsset(path string) (MediaAsset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return MediaAsset{}, services.Wrap(services.ErrInvalidInput, "validate", "", "empty input path", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return MediaAsset{}, services.Wrap(services.ErrInvalidInput, "validate", path, "input not accessible", err)
	}
	if !info.Mode().IsRegular() {
		return MediaAsset{}, services.Wrap(services.ErrInvalidInput, "validate", path, "input is not a regular file", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return MediaAsset{}, services.Wrap(services.ErrInvalidInput, "validate", path, "input not readable", err)
	}
	_ = f.Close()
	return MediaAsset{Path: path}, nil
}

// Backend identifies which processing backend produced a result.
type Backend string

const (
	BackendNone     Backend = ""
	BackendPrimary  Backend = "primary"
	BackendFallback Backend = "fallback"
)

// JobError is the classified failure of a job. Timeout marks a probe or
// execution failure caused by a deadline.
type JobError struct {
	Kind    services.Kind `json:"kind"`
	Message string        `json:"message"`
	Timeout bool          `json:"timeout,omitempty"`
	Stderr  string        `json:"stderr,omitempty"`
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewJobError classifies err. It returns nil for a nil error.
func NewJobError(err error) *JobError {
	if err == nil {
		return nil
	}
	var existing *JobError
	if errors.As(err, &existing) {
		return existing
	}
	return &JobError{
		Kind:    services.KindOf(err),
		Message: err.Error(),
		Timeout: services.IsTimeout(err),
		Stderr:  services.StderrOf(err),
	}
}

// Metrics describes a produced output.
type Metrics struct {
	DurationSeconds float64 `json:"duration_seconds"`
	SizeBytes       int64   `json:"size_bytes"`
	BitrateBps      int64   `json:"bitrate_bps"`
}

// JobResult is the outcome of one job. Backend is set on success and on
// failures that happened after a backend was invoked.
type JobResult struct {
	Success    bool      `json:"success"`
	OutputPath string    `json:"output_path,omitempty"`
	Error      *JobError `json:"error,omitempty"`
	Backend    Backend   `json:"backend_used,omitempty"`
	Metrics    *Metrics  `json:"metrics,omitempty"`
	Stages     []string  `json:"stages,omitempty"`
}

// Succeeded builds a successful result.
func Succeeded(output string, backend Backend) JobResult {
	return JobResult{Success: true, OutputPath: output, Backend: backend}
}

// Failed builds a failed result from err. backend is BackendNone when the
// failure happened before any backend ran.
func Failed(output string, backend Backend, err error) JobResult {
	return JobResult{OutputPath: output, Backend: backend, Error: NewJobError(err)}
}

// ItemResult pairs an input path with its outcome.
type ItemResult struct {
	InputPath string    `json:"input_path"`
	Result    JobResult `json:"result"`
}

// Status summarizes a batch.
type Status string

const (
	StatusComplete       Status = "complete"
	StatusPartialFailure Status = "partial_failure"
	StatusFailed         Status = "failed"
)

// BatchResult is the ordered outcome of a batch. Items are in input order and
// ProcessedCount always equals the number of inputs.
type BatchResult struct {
	ID             string       `json:"id"`
	Label          string       `json:"label"`
	ProcessedCount int          `json:"processed_count"`
	Items          []ItemResult `json:"items"`
}

// Succeeded counts successful items.
func (b BatchResult) Succeeded() int {
	n := 0
	for _, item := range b.Items {
		if item.Result.Success {
			n++
		}
	}
	return n
}

// Failed counts failed items.
func (b BatchResult) Failed() int {
	return len(b.Items) - b.Succeeded()
}

// Status reports complete when every item succeeded, failed when none did,
// and partial_failure otherwise. An empty batch is complete.
func (b BatchResult) Status() Status {
	ok := b.Succeeded()
	switch {
	case ok == len(b.Items):
		return StatusComplete
	case ok == 0:
		return StatusFailed
	default:
		return StatusPartialFailure
	}
}
