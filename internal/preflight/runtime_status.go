package preflight

import (
	"context"
	"fmt"
	"time"

	"mediaforge/internal/config"
	"mediaforge/internal/vdisplay"
)

// DisplayProbe reports the current virtual display snapshot.
type DisplayProbe struct {
	Display string `json:"display"`
	Running bool   `json:"running"`
	Err     string `json:"error,omitempty"`
}

// ProbeDisplay checks whether a display server is already serving the
// configured display. It never starts one.
func ProbeDisplay(ctx context.Context, cfg *config.Config, find vdisplay.Finder) DisplayProbe {
	if find == nil {
		find = vdisplay.FindRunning
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	probe := DisplayProbe{Display: cfg.Image.Display}
	running, err := find(ctx, cfg.Tools.Xvfb, cfg.Image.Display)
	if err != nil {
		probe.Err = err.Error()
		return probe
	}
	probe.Running = running
	return probe
}

// Detail renders a display-friendly summary for status output.
func (p DisplayProbe) Detail() string {
	switch {
	case p.Err != "":
		return fmt.Sprintf("%s (detection failed: %s)", p.Display, p.Err)
	case p.Running:
		return fmt.Sprintf("%s running", p.Display)
	default:
		return fmt.Sprintf("%s not running (started on first image job)", p.Display)
	}
}
