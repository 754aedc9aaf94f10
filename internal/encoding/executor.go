package encoding

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/operations"
	"mediaforge/internal/procexec"
	"mediaforge/internal/services"
)

// Executor runs video transcodes with ffmpeg.
type Executor struct {
	Binary          string
	Settings        Settings
	Timeout         time.Duration
	CompressTimeout time.Duration
	Runner          procexec.Runner
	Logger          *slog.Logger
}

// NewExecutor builds an Executor from configuration.
func NewExecutor(cfg *config.Config, logger *slog.Logger) *Executor {
	return &Executor{
		Binary: cfg.Tools.FFmpeg,
		Settings: Settings{
			Codec:          cfg.Video.Codec,
			Preset:         cfg.Video.Preset,
			CRF:            cfg.Video.CRF,
			CompressCRF:    cfg.Video.CompressCRF,
			CompressPreset: cfg.Video.CompressPreset,
		},
		Timeout:         cfg.TranscodeTimeout(false),
		CompressTimeout: cfg.TranscodeTimeout(true),
		Runner:          procexec.Default,
		Logger:          logging.NewComponentLogger(logger, "encoding"),
	}
}

// Execute transcodes input to output. The returned backend is Primary whenever
// ffmpeg was started, including on failure.
func (e *Executor) Execute(ctx context.Context, input, output string, chain operations.FilterChain, rate *RateControl) (jobs.Backend, error) {
	ctx = services.WithStage(ctx, "encoding")
	logger := logging.WithContext(ctx, e.Logger)

	args, err := TranscodeArgs(input, output, chain, e.Settings, rate)
	if err != nil {
		return jobs.BackendNone, services.Wrap(services.ErrInvalidInput, "encoding", "build command", "", err)
	}

	timeout := e.Timeout
	if chain.Compress || rate != nil {
		timeout = e.CompressTimeout
	}
	logger.Debug("starting transcode",
		logging.String("input", input),
		logging.String("output", output),
		logging.String("stages", strings.Join(chain.Names(), ",")),
		logging.Duration("timeout", timeout),
	)

	res, err := e.runner().Run(ctx, procexec.Spec{Binary: e.binary(), Args: args, Timeout: timeout})
	if err != nil {
		removePartial(output)
		if errors.Is(err, services.ErrCancelled) {
			return jobs.BackendPrimary, err
		}
		msg := "ffmpeg failed"
		if services.IsTimeout(err) {
			msg = "ffmpeg timed out"
		}
		logging.ErrorWithContext(logger, "transcode failed", "transcode_failed",
			logging.String("input", input),
			logging.String(logging.FieldErrorHint, services.StderrTail(services.StderrOf(err), 2)),
			logging.Error(err),
		)
		return jobs.BackendPrimary, services.Wrap(services.ErrExecutionFailure, "encoding", "transcode", msg, err)
	}
	logger.Info("transcode finished",
		logging.String("output", output),
		logging.Duration("elapsed", res.Elapsed),
	)
	return jobs.BackendPrimary, nil
}

func (e *Executor) runner() procexec.Runner {
	if e.Runner == nil {
		return procexec.Default
	}
	return e.Runner
}

func (e *Executor) binary() string {
	if b := strings.TrimSpace(e.Binary); b != "" {
		return b
	}
	return "ffmpeg"
}

func removePartial(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
