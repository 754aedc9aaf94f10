package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrProbeFailure       = errors.New("probe failure")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrExecutionFailure   = errors.New("execution failure")
	ErrTimeout            = errors.New("timeout")
	ErrCancelled          = errors.New("cancelled")
)

// Kind is the stable, machine-readable classification of a job failure.
type Kind string

const (
	KindNone               Kind = ""
	KindInvalidInput       Kind = "invalid_input"
	KindProbeFailure       Kind = "probe_failure"
	KindInvalidDuration    Kind = "invalid_duration"
	KindBackendUnavailable Kind = "backend_unavailable"
	KindExecutionFailure   Kind = "execution_failure"
	KindCancelled          Kind = "cancelled"
)

// kindMarkers is checked in order; the first marker found in the chain wins.
// ErrTimeout is deliberately absent: a timeout is a detail of the probe or
// execution failure that carries it.
var kindMarkers = []struct {
	marker error
	kind   Kind
}{
	{ErrInvalidInput, KindInvalidInput},
	{ErrInvalidDuration, KindInvalidDuration},
	{ErrProbeFailure, KindProbeFailure},
	{ErrBackendUnavailable, KindBackendUnavailable},
	{ErrExecutionFailure, KindExecutionFailure},
	{ErrCancelled, KindCancelled},
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExecutionFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf classifies err against the taxonomy. Unmarked errors are reported as
// execution failures so that nothing escapes classification.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, km := range kindMarkers {
		if errors.Is(err, km.marker) {
			return km.kind
		}
	}
	return KindExecutionFailure
}

// IsTimeout reports whether err was caused by an enforced deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// ToolError describes a failed external tool invocation.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	if e.ExitCode < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	if tail := StderrTail(e.Stderr, 5); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// StderrOf returns the captured stderr of the first ToolError in err's chain.
func StderrOf(err error) string {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Stderr
	}
	return ""
}

// StderrTail returns the last n non-empty lines of stderr joined by " | ".
func StderrTail(stderr string, n int) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			kept = append(kept, line)
		}
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, " | ")
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
