package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mediaforge/internal/operations"
)

// IsCandidate reports whether path names a file a batch should pick up from
// a directory: a known media type that is neither hidden nor a previous
// batch output.
func IsCandidate(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, OutputPrefix+"_") {
		return false
	}
	return operations.DetectKind(path) != operations.KindUnknown
}

// ExpandInputs replaces every directory in paths with its candidate media
// files, sorted by name. Directories are not descended into. Other paths are
// kept as given so the orchestrator reports them per item.
func ExpandInputs(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			out = append(out, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read input directory %s: %w", path, err)
		}
		found := make([]string, 0, len(entries))
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			full := filepath.Join(path, entry.Name())
			if IsCandidate(full) {
				found = append(found, full)
			}
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
