package imageedit

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/operations"
	"mediaforge/internal/procexec"
	"mediaforge/internal/services"
)

// Executor applies image chains, preferring the primary backend.
type Executor struct {
	Primary        *Primary
	PrimaryEnabled bool
	Fallback       Fallback
	Logger         *slog.Logger
}

// NewExecutor builds an Executor from configuration. displays supplies the
// virtual display for primary runs.
func NewExecutor(cfg *config.Config, displays DisplayProvider, logger *slog.Logger) *Executor {
	return &Executor{
		Primary: &Primary{
			Interpreter: cfg.Tools.ImageInterpreter,
			BridgePaths: cfg.Image.BridgePaths,
			Timeout:     cfg.ImageTimeout(),
			Displays:    displays,
			Runner:      procexec.Default,
		},
		PrimaryEnabled: cfg.Image.PrimaryEnabled,
		Fallback: Fallback{
			JPEGQuality: cfg.Image.FallbackJPEGQuality,
			WebPQuality: cfg.Image.WebPQuality,
		},
		Logger: logging.NewComponentLogger(logger, "imageedit"),
	}
}

// PrimaryAvailable is the capability probe for the primary backend.
func (e *Executor) PrimaryAvailable(ctx context.Context) bool {
	return e.PrimaryEnabled && e.Primary != nil && e.Primary.Available(ctx) == nil
}

// Execute applies chain to input and writes output. It returns the backend
// that produced the output, or the last backend attempted on failure.
func (e *Executor) Execute(ctx context.Context, input, output string, chain operations.FilterChain) (jobs.Backend, error) {
	ctx = services.WithStage(ctx, "image")
	logger := logging.WithContext(ctx, e.Logger)

	if e.PrimaryEnabled && e.Primary != nil {
		err := e.Primary.Available(ctx)
		if err == nil {
			err = e.Primary.Process(ctx, input, output, chain)
			if err == nil {
				logger.Info("image processed", logging.String("backend", string(jobs.BackendPrimary)), logging.String("output", output))
				return jobs.BackendPrimary, nil
			}
		}
		if errors.Is(err, services.ErrCancelled) {
			return jobs.BackendNone, err
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return jobs.BackendNone, err
		}
		_ = os.Remove(output)
		logging.WarnWithContext(logger, "primary image backend failed; using fallback", "image_fallback",
			logging.String(logging.FieldErrorKind, string(services.KindOf(err))),
			logging.String(logging.FieldErrorHint, "install GIMP with Python support or set image.primary_enabled=false"),
			logging.Error(err),
		)
	}

	if err := e.Fallback.Process(input, output, chain); err != nil {
		logging.ErrorWithContext(logger, "fallback image backend failed", "image_fallback_failed", logging.Error(err))
		return jobs.BackendFallback, err
	}
	logger.Info("image processed", logging.String("backend", string(jobs.BackendFallback)), logging.String("output", output))
	return jobs.BackendFallback, nil
}

// Close releases the primary backend's temporary files.
func (e *Executor) Close() error {
	if e.Primary == nil {
		return nil
	}
	return e.Primary.Close()
}
