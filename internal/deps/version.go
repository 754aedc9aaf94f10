package deps

import (
	"context"
	"strings"
	"time"

	"mediaforge/internal/procexec"
)

const versionTimeout = 5 * time.Second

// VersionFlags maps a requirement name to the flag that prints its version.
var VersionFlags = map[string]string{
	"FFmpeg":  "-version",
	"FFprobe": "-version",
}

// AnnotateVersions fills Detail with the first line of each available tool's
// version output. Tools without a known version flag are left untouched.
func AnnotateVersions(ctx context.Context, runner procexec.Runner, statuses []Status) {
	if runner == nil {
		runner = procexec.Default
	}
	for i := range statuses {
		s := &statuses[i]
		flag, ok := VersionFlags[s.Name]
		if !ok || !s.Available {
			continue
		}
		res, err := runner.Run(ctx, procexec.Spec{Binary: s.Path, Args: []string{flag}, Timeout: versionTimeout})
		if err != nil {
			s.Detail = "version check failed"
			continue
		}
		line, _, _ := strings.Cut(strings.TrimSpace(string(res.Stdout)), "\n")
		s.Detail = strings.TrimSpace(line)
	}
}
