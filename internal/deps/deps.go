// Package deps reports which external tools mediaforge can find.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"mediaforge/internal/config"
)

// Requirement defines an external dependency mediaforge relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Path        string `json:"path,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Requirements lists the tools cfg points at. The image interpreter and the
// display server are optional because image jobs fall back to the built-in
// backend without them.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Video transcoding"},
		{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "Media inspection"},
	}
	if cfg.Image.PrimaryEnabled {
		reqs = append(reqs,
			Requirement{Name: "Image interpreter", Command: cfg.Tools.ImageInterpreter, Description: "Primary image backend (GIMP Python)", Optional: true},
			Requirement{Name: "Xvfb", Command: cfg.Tools.Xvfb, Description: "Virtual display for the primary image backend", Optional: true},
		)
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of required dependencies that are not available.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s.Name)
		}
	}
	return missing
}
