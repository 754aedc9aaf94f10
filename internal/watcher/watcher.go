// Package watcher turns new media files in a directory into single-item
// batches.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"mediaforge/internal/batch"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/operations"
)

// DefaultSettle is how long a file must stay quiet before it is processed.
const DefaultSettle = 2 * time.Second

// BatchRunner executes a batch.
type BatchRunner interface {
	Run(ctx context.Context, inputs []string, intent operations.Intent) (jobs.BatchResult, error)
}

// Watcher monitors one directory.
type Watcher struct {
	Dir      string
	Intent   operations.Intent
	Runner   BatchRunner
	Settle   time.Duration
	Logger   *slog.Logger
	OnResult func(jobs.BatchResult)

	seen map[string]struct{}
}

// Watch blocks until ctx is cancelled, processing each settled media file
// once. Files whose names carry the batch output prefix are skipped so an
// output directory inside the watched one does not loop.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	logger := logging.NewComponentLogger(w.Logger, "watcher")
	logger.Info("watching directory", logging.String("dir", w.Dir), logging.String("label", w.Intent.Label))

	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	w.seen = make(map[string]struct{})
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(settle/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher stopped", logging.Int("pending", len(pending)))
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if w.eligible(event.Name) {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(logger, "watch error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "events may have been dropped"),
			)
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				w.process(ctx, logger, path)
			}
		}
	}
}

func (w *Watcher) eligible(path string) bool {
	if _, done := w.seen[path]; done {
		return false
	}
	return batch.IsCandidate(path)
}

func (w *Watcher) process(ctx context.Context, logger *slog.Logger, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	w.seen[path] = struct{}{}
	logger.Info("processing new file", logging.String("input", path))
	result, err := w.Runner.Run(ctx, []string{path}, w.Intent)
	if err != nil {
		logging.ErrorWithContext(logger, "watch batch failed", "watch_batch_failed",
			logging.String("input", path),
			logging.Error(err),
		)
		return
	}
	if w.OnResult != nil {
		w.OnResult(result)
	}
}
