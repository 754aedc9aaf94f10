package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"mediaforge/internal/config"
	"mediaforge/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external tools cfg points at and annotates
// the available ones with their version line.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	deps.AnnotateVersions(ctx, nil, statuses)
	return statuses
}

// PrimaryChecker is the capability probe of the primary image backend.
type PrimaryChecker interface {
	PrimaryAvailable(ctx context.Context) bool
}

// CheckPrimaryImage reports whether the primary image backend can load.
func CheckPrimaryImage(ctx context.Context, cfg *config.Config, checker PrimaryChecker) Result {
	const name = "Primary image backend"
	if cfg == nil || !cfg.Image.PrimaryEnabled {
		return Result{Name: name, Passed: true, Optional: true, Detail: "Disabled"}
	}
	if checker != nil && checker.PrimaryAvailable(ctx) {
		return Result{Name: name, Passed: true, Optional: true, Detail: "Bridge loaded"}
	}
	return Result{Name: name, Optional: true, Detail: "Unavailable (fallback backend will be used)"}
}
