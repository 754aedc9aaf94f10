package imageedit

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mediaforge/internal/operations"
	"mediaforge/internal/procexec"
	"mediaforge/internal/services"
	"mediaforge/internal/vdisplay"
)

//go:embed gimp_bridge.py
var bridgeScript []byte

// successMarker is printed by the bridge after the output is saved.
const successMarker = "MEDIAFORGE_PRIMARY_OK"

// exitBridgeUnavailable is the bridge's exit status when gimpfu cannot load.
const exitBridgeUnavailable = 3

// DisplayProvider hands out the display the primary backend renders on.
type DisplayProvider interface {
	Acquire(ctx context.Context) (vdisplay.Display, error)
}

// Primary runs chains through GIMP's Python bridge.
type Primary struct {
	Interpreter string
	BridgePaths []string
	Timeout     time.Duration
	Displays    DisplayProvider
	Runner      procexec.Runner

	scriptOnce sync.Once
	scriptPath string
	scriptErr  error

	probeMu  sync.Mutex
	probed   bool
	probeErr error
}

// Available reports nil when the bridge module loads. The result of the first
// probe is cached. A failure matches services.ErrBackendUnavailable.
func (p *Primary) Available(ctx context.Context) error {
	p.probeMu.Lock()
	defer p.probeMu.Unlock()
	if p.probed {
		return p.probeErr
	}
	p.probeErr = p.probe(ctx)
	if !errors.Is(p.probeErr, services.ErrCancelled) {
		p.probed = true
	}
	return p.probeErr
}

func (p *Primary) probe(ctx context.Context) error {
	script, err := p.script()
	if err != nil {
		return services.Wrap(services.ErrBackendUnavailable, "image", "probe", "write bridge script", err)
	}
	res, err := p.runner().Run(ctx, procexec.Spec{
		Binary:  p.interpreter(),
		Args:    []string{script, "--probe"},
		Env:     p.env(nil),
		Timeout: 15 * time.Second,
	})
	if errors.Is(err, services.ErrCancelled) {
		return err
	}
	if err != nil {
		return services.Wrap(services.ErrBackendUnavailable, "image", "probe", "bridge module not loadable", err)
	}
	if !bytes.Contains(res.Stdout, []byte(successMarker)) {
		return services.Wrap(services.ErrBackendUnavailable, "image", "probe", "bridge probe printed no marker", nil)
	}
	return nil
}

// Process applies chain to input and writes output.
func (p *Primary) Process(ctx context.Context, input, output string, chain operations.FilterChain) error {
	ops, err := BridgeOps(chain)
	if err != nil {
		return services.Wrap(services.ErrInvalidInput, "image", "primary", "", err)
	}
	if p.Displays == nil {
		return services.Wrap(services.ErrBackendUnavailable, "image", "primary", "no display provider", nil)
	}
	display, err := p.Displays.Acquire(ctx)
	if err != nil {
		return err
	}
	script, err := p.script()
	if err != nil {
		return services.Wrap(services.ErrBackendUnavailable, "image", "primary", "write bridge script", err)
	}

	args := append([]string{script, input, output}, ops...)
	res, err := p.runner().Run(ctx, procexec.Spec{
		Binary:  p.interpreter(),
		Args:    args,
		Env:     p.env(display.Env()),
		Timeout: p.Timeout,
	})
	if err != nil {
		var toolErr *services.ToolError
		if errors.As(err, &toolErr) && toolErr.ExitCode == exitBridgeUnavailable {
			return services.Wrap(services.ErrBackendUnavailable, "image", "primary", "bridge module not loadable", err)
		}
		return services.Wrap(services.ErrExecutionFailure, "image", "primary", "bridge run failed", err)
	}
	if !bytes.Contains(res.Stdout, []byte(successMarker)) {
		return services.Wrap(services.ErrExecutionFailure, "image", "primary", "bridge printed no success marker", nil)
	}
	return nil
}

// Close removes the materialized bridge script.
func (p *Primary) Close() error {
	if p.scriptPath == "" {
		return nil
	}
	return os.RemoveAll(filepath.Dir(p.scriptPath))
}

// BridgeOps encodes chain as bridge operation arguments.
func BridgeOps(chain operations.FilterChain) ([]string, error) {
	ops := make([]string, 0, len(chain.Stages))
	for _, stage := range chain.Stages {
		switch s := stage.(type) {
		case operations.Scale:
			ops = append(ops, fmt.Sprintf("scale=%dx%d", s.Width, s.Height))
		case operations.ColorAdjust:
			switch s.Kind {
			case operations.ColorLevelStretch:
				ops = append(ops, "level_stretch")
			case operations.ColorBalance:
				ops = append(ops, fmt.Sprintf("color_balance=%g", operations.ParamValue(s.Params, "shadows", 10)))
			case operations.ColorSharpen:
				ops = append(ops, fmt.Sprintf("sharpen=%g:%g",
					operations.ParamValue(s.Params, "radius", 1), operations.ParamValue(s.Params, "amount", 1)))
			case operations.ColorBrighten:
				ops = append(ops, fmt.Sprintf("brighten=%g:%g",
					operations.ParamValue(s.Params, "brightness", 10), operations.ParamValue(s.Params, "contrast", 10)))
			default:
				return nil, fmt.Errorf("color adjustment %q is not supported for images", s.Kind)
			}
		default:
			return nil, fmt.Errorf("stage %s is not supported for images", operations.StageName(stage))
		}
	}
	return ops, nil
}

func (p *Primary) script() (string, error) {
	p.scriptOnce.Do(func() {
		dir, err := os.MkdirTemp("", "mediaforge-bridge-")
		if err != nil {
			p.scriptErr = err
			return
		}
		path := filepath.Join(dir, "gimp_bridge.py")
		if err := os.WriteFile(path, bridgeScript, 0o600); err != nil {
			p.scriptErr = err
			return
		}
		p.scriptPath = path
	})
	return p.scriptPath, p.scriptErr
}

func (p *Primary) env(extra []string) []string {
	env := []string{"MEDIAFORGE_BRIDGE_PATHS=" + strings.Join(p.BridgePaths, string(os.PathListSeparator))}
	return append(env, extra...)
}

func (p *Primary) interpreter() string {
	if v := strings.TrimSpace(p.Interpreter); v != "" {
		return v
	}
	return "python3"
}

func (p *Primary) runner() procexec.Runner {
	if p.Runner == nil {
		return procexec.Default
	}
	return p.Runner
}
