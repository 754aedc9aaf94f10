package procexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"mediaforge/internal/services"
)

// waitGrace bounds how long Wait may block on inherited pipes after the
// process group has been killed.
const waitGrace = 2 * time.Second

// Spec describes one external tool invocation.
type Spec struct {
	Binary  string
	Args    []string
	Env     []string // appended to the parent environment
	Dir     string
	Timeout time.Duration
}

// Result carries captured output of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Elapsed  time.Duration
}

// Runner executes a Spec. Components accept a Runner so tests can replace it.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, spec Spec) (Result, error)

func (f RunnerFunc) Run(ctx context.Context, spec Spec) (Result, error) { return f(ctx, spec) }

// Default runs processes on the local host.
var Default Runner = RunnerFunc(Run)

// Run executes spec, blocking until the process exits or its deadline passes.
//
// A non-zero exit returns a *services.ToolError. A deadline overrun kills the
// whole process group and returns an error matching services.ErrTimeout.
// Cancellation of ctx returns an error matching services.ErrCancelled.
func Run(ctx context.Context, spec Spec) (Result, error) {
	if spec.Binary == "" {
		return Result{}, errors.New("procexec: empty binary")
	}

	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
	}
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, spec.Binary, spec.Args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return killGroup(cmd.Process)
	}
	cmd.WaitDelay = waitGrace

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
		Elapsed: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return result, nil
	}

	toolErr := &services.ToolError{
		Tool:     spec.Binary,
		ExitCode: result.ExitCode,
		Stderr:   stderr.String(),
		Err:      err,
	}
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return result, fmt.Errorf("%w after %s: %w", services.ErrTimeout, spec.Timeout, toolErr)
	case ctx.Err() != nil:
		return result, fmt.Errorf("%w: %w", services.ErrCancelled, toolErr)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The binary never started: missing, not executable, bad working directory.
		toolErr.ExitCode = -1
	}
	return result, toolErr
}

// killGroup signals the negative pid so every member of the child's process
// group dies with it.
func killGroup(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	if err := unix.Kill(-proc.Pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return proc.Kill()
	}
	return nil
}
