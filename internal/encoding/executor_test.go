package encoding_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mediaforge/internal/encoding"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/procexec"
	"mediaforge/internal/services"
)

func newExecutor(runner procexec.Runner) *encoding.Executor {
	return &encoding.Executor{
		Binary:          "ffmpeg",
		Settings:        defaultSettings,
		Timeout:         300 * time.Second,
		CompressTimeout: 600 * time.Second,
		Runner:          runner,
		Logger:          logging.NewNop(),
	}
}

func TestExecuteSuccessReportsPrimary(t *testing.T) {
	var spec procexec.Spec
	exec := newExecutor(procexec.RunnerFunc(func(_ context.Context, s procexec.Spec) (procexec.Result, error) {
		spec = s
		return procexec.Result{}, nil
	}))
	backend, err := exec.Execute(context.Background(), "in.mp4", "out.mp4", resolve(t, "resize_720p"), nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if backend != jobs.BackendPrimary {
		t.Fatalf("unexpected backend %q", backend)
	}
	if spec.Timeout != 300*time.Second {
		t.Fatalf("unexpected timeout %v", spec.Timeout)
	}
	if spec.Binary != "ffmpeg" || spec.Args[len(spec.Args)-1] != "out.mp4" {
		t.Fatalf("unexpected spec %+v", spec)
	}
}

func TestExecuteCompressionUsesLongerTimeout(t *testing.T) {
	var timeout time.Duration
	exec := newExecutor(procexec.RunnerFunc(func(_ context.Context, s procexec.Spec) (procexec.Result, error) {
		timeout = s.Timeout
		return procexec.Result{}, nil
	}))
	if _, err := exec.Execute(context.Background(), "in.mp4", "out.mp4", resolve(t, "compress"), nil); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if timeout != 600*time.Second {
		t.Fatalf("expected compress timeout, got %v", timeout)
	}
}

func TestExecuteFailureCarriesStderr(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.mp4")
	exec := newExecutor(procexec.RunnerFunc(func(context.Context, procexec.Spec) (procexec.Result, error) {
		_ = os.WriteFile(out, []byte("partial"), 0o644)
		return procexec.Result{}, &services.ToolError{Tool: "ffmpeg", ExitCode: 1, Stderr: "No such filter: 'vidstabdetect'"}
	}))
	backend, err := exec.Execute(context.Background(), "in.mp4", out, resolve(t, "stabilize"), nil)
	if !errors.Is(err, services.ErrExecutionFailure) {
		t.Fatalf("expected execution failure, got %v", err)
	}
	if backend != jobs.BackendPrimary {
		t.Fatalf("expected primary backend on post-invocation failure, got %q", backend)
	}
	if !strings.Contains(services.StderrOf(err), "vidstabdetect") {
		t.Fatalf("expected stderr in error chain, got %q", services.StderrOf(err))
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatal("expected partial output to be removed")
	}
}

func TestExecuteTimeoutIsExecutionFailure(t *testing.T) {
	exec := newExecutor(procexec.RunnerFunc(func(context.Context, procexec.Spec) (procexec.Result, error) {
		return procexec.Result{}, services.ErrTimeout
	}))
	_, err := exec.Execute(context.Background(), "in.mp4", "out.mp4", resolve(t), nil)
	if services.KindOf(err) != services.KindExecutionFailure || !services.IsTimeout(err) {
		t.Fatalf("expected execution failure with timeout, got %v", err)
	}
}

func TestFramesToVideoRejectsBadFPS(t *testing.T) {
	exec := newExecutor(procexec.RunnerFunc(func(context.Context, procexec.Spec) (procexec.Result, error) {
		t.Fatal("runner must not be called")
		return procexec.Result{}, nil
	}))
	if err := exec.FramesToVideo(context.Background(), "f/%04d.png", "out.mp4", 0, time.Minute); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
