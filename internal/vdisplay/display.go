package vdisplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"

	"mediaforge/internal/logging"
	"mediaforge/internal/services"
)

const (
	defaultStartTimeout = 5 * time.Second
	lockRetryDelay      = 50 * time.Millisecond
	socketDir           = "/tmp/.X11-unix"
)

// Display is a handle on a running X display.
type Display struct {
	Name string // e.g. ":99"
}

// Env returns the environment entries a child needs to render on d.
func (d Display) Env() []string {
	return []string{"DISPLAY=" + d.Name}
}

// Options configures a Manager.
type Options struct {
	Binary       string // Xvfb executable
	Display      string // ":99"
	Screen       string // "1024x768x24"
	LockPath     string // cross-process lock; empty disables it
	StartTimeout time.Duration
}

// Finder reports whether a server for display is already running.
type Finder func(ctx context.Context, binary, display string) (bool, error)

// Starter launches a server for display and blocks until it accepts
// connections. The returned stop function terminates it.
type Starter func(ctx context.Context, opts Options) (stop func() error, err error)

// Manager owns the lifecycle of one virtual display.
type Manager struct {
	opts   Options
	logger *slog.Logger
	find   Finder
	start  Starter

	mu      sync.Mutex
	display *Display
	stop    func() error
}

// NewManager builds a Manager that detects servers with gopsutil and starts
// them with the configured Xvfb binary.
func NewManager(opts Options, logger *slog.Logger) *Manager {
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = defaultStartTimeout
	}
	return &Manager{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "vdisplay"),
		find:   FindRunning,
		start:  StartXvfb,
	}
}

// WithHooks replaces server detection and startup, for tests.
func (m *Manager) WithHooks(find Finder, start Starter) *Manager {
	if find != nil {
		m.find = find
	}
	if start != nil {
		m.start = start
	}
	return m
}

// Acquire returns the display, starting a server on first use. Failures are
// reported as services.ErrBackendUnavailable so image jobs can fall back.
func (m *Manager) Acquire(ctx context.Context) (Display, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.display != nil {
		return *m.display, nil
	}

	if m.opts.LockPath != "" {
		lock := flock.New(m.opts.LockPath)
		if err := os.MkdirAll(filepath.Dir(m.opts.LockPath), 0o755); err != nil {
			return Display{}, services.Wrap(services.ErrBackendUnavailable, "vdisplay", "lock", "", err)
		}
		locked, err := lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil || !locked {
			return Display{}, services.Wrap(services.ErrBackendUnavailable, "vdisplay", "lock", "display lock not acquired", err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	running, err := m.find(ctx, m.opts.Binary, m.opts.Display)
	if err != nil {
		logging.WarnWithContext(m.logger, "display detection failed", "display_detect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "starting a new display server"),
		)
	}
	if running {
		m.logger.Debug("reusing running display", logging.String("display", m.opts.Display))
		m.display = &Display{Name: m.opts.Display}
		return *m.display, nil
	}

	stop, err := m.start(ctx, m.opts)
	if err != nil {
		return Display{}, services.Wrap(services.ErrBackendUnavailable, "vdisplay", "start", m.opts.Display, err)
	}
	m.logger.Info("virtual display started",
		logging.String("display", m.opts.Display),
		logging.String("screen", m.opts.Screen),
	)
	m.display = &Display{Name: m.opts.Display}
	m.stop = stop
	return *m.display, nil
}

// Close stops the server if this Manager started it.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.display = nil
	if m.stop == nil {
		return nil
	}
	stop := m.stop
	m.stop = nil
	return stop()
}

// FindRunning scans the process table for a server bound to display.
func FindRunning(ctx context.Context, binary, display string) (bool, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}
	name := filepath.Base(strings.TrimSpace(binary))
	if name == "" || name == "." {
		name = "Xvfb"
	}
	for _, p := range procs {
		pname, err := p.NameWithContext(ctx)
		if err != nil || pname != name {
			continue
		}
		args, err := p.CmdlineSliceWithContext(ctx)
		if err != nil {
			continue
		}
		for _, arg := range args[min(1, len(args)):] {
			if arg == display {
				return true, nil
			}
		}
	}
	return false, nil
}

// StartXvfb launches Xvfb for opts.Display and waits for its socket.
func StartXvfb(ctx context.Context, opts Options) (func() error, error) {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "Xvfb"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("display server not installed: %w", err)
	}

	cmd := exec.Command(binary, opts.Display, "-screen", "0", opts.Screen, "-nolisten", "tcp") //nolint:gosec
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	stop := func() error {
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
			return err
		}
		select {
		case <-exited:
		case <-time.After(2 * time.Second):
			_ = unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		}
		return nil
	}

	timeout := opts.StartTimeout
	if timeout <= 0 {
		timeout = defaultStartTimeout
	}
	socket := filepath.Join(socketDir, "X"+strings.TrimPrefix(opts.Display, ":"))
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		if _, err := os.Stat(socket); err == nil {
			return stop, nil
		}
		select {
		case err := <-exited:
			return nil, fmt.Errorf("%s exited during startup: %v", binary, err)
		case <-ctx.Done():
			_ = stop()
			return nil, ctx.Err()
		case <-deadline.C:
			_ = stop()
			return nil, fmt.Errorf("%s did not become ready within %s", binary, timeout)
		case <-tick.C:
		}
	}
}
