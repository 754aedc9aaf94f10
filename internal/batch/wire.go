package batch

import (
	"errors"
	"log/slog"

	"mediaforge/internal/config"
	"mediaforge/internal/encoding"
	"mediaforge/internal/history"
	"mediaforge/internal/imageedit"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/ffprobe"
	"mediaforge/internal/notifications"
	"mediaforge/internal/operations"
	"mediaforge/internal/vdisplay"
)

// Runtime bundles an Orchestrator with the resources it owns.
type Runtime struct {
	*Orchestrator
	Presets operations.PresetTable

	display *vdisplay.Manager
	images  *imageedit.Executor
	history *history.Store
}

// NewRuntime wires the executors, prober, display manager and optional
// history store described by cfg.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	display := vdisplay.NewManager(vdisplay.Options{
		Binary:   cfg.Tools.Xvfb,
		Display:  cfg.Image.Display,
		Screen:   cfg.Image.Screen,
		LockPath: cfg.DisplayLockPath(),
	}, logger)
	images := imageedit.NewExecutor(cfg, display, logger)

	rt := &Runtime{
		Orchestrator: &Orchestrator{
			Video:     encoding.NewExecutor(cfg, logger),
			Image:     images,
			Prober:    ffprobe.New(cfg.Tools.FFprobe, cfg.ProbeTimeout()),
			Notifier:  notifications.NewService(cfg),
			Resolver:  operations.Resolver{Strict: cfg.Batch.StrictTags},
			OutputDir: cfg.Paths.OutputDir,
			Workers:   cfg.Batch.Workers,
			Logger:    logger,
		},
		Presets: PresetsFromConfig(cfg),
		display: display,
		images:  images,
	}
	if cfg.Batch.RecordHistory {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return nil, err
		}
		rt.history = store
		rt.Recorder = store
	}
	return rt, nil
}

// PresetsFromConfig layers user presets over the built-in table.
func PresetsFromConfig(cfg *config.Config) operations.PresetTable {
	overrides := make(map[string]operations.Preset, len(cfg.Presets))
	for name, p := range cfg.Presets {
		overrides[name] = operations.Preset{
			Name:             name,
			VideoTags:        p.VideoTags,
			ImageTags:        p.ImageTags,
			LongVideoTags:    p.LongVideoTags,
			LongVideoSeconds: p.LongVideoSeconds,
		}
	}
	return operations.NewPresetTable(cfg.Batch.DefaultPreset, overrides)
}

// Close stops a display this runtime started and releases temp files and
// the history database.
func (r *Runtime) Close() error {
	var errs []error
	if r.images != nil {
		errs = append(errs, r.images.Close())
	}
	if r.display != nil {
		errs = append(errs, r.display.Close())
	}
	if r.history != nil {
		errs = append(errs, r.history.Close())
	}
	return errors.Join(errs...)
}
