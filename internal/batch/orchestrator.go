package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mediaforge/internal/encoding"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/ffprobe"
	"mediaforge/internal/operations"
	"mediaforge/internal/services"
)

// OutputPrefix starts every batch output file name.
const OutputPrefix = "processed"

// VideoExecutor transcodes one video.
type VideoExecutor interface {
	Execute(ctx context.Context, input, output string, chain operations.FilterChain, rate *encoding.RateControl) (jobs.Backend, error)
}

// ImageExecutor processes one image.
type ImageExecutor interface {
	Execute(ctx context.Context, input, output string, chain operations.FilterChain) (jobs.Backend, error)
}

// Prober inspects media files.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.MediaInfo, error)
}

// Recorder persists finished batches.
type Recorder interface {
	Record(ctx context.Context, result jobs.BatchResult, started, finished time.Time) error
}

// Notifier announces finished batches.
type Notifier interface {
	NotifyBatchCompleted(ctx context.Context, result jobs.BatchResult, elapsed time.Duration) error
}

// Orchestrator fans a batch out over a bounded worker pool.
type Orchestrator struct {
	Video     VideoExecutor
	Image     ImageExecutor
	Prober    Prober
	Recorder  Recorder
	Notifier  Notifier
	Resolver  operations.Resolver
	OutputDir string
	Workers   int
	Logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// OutputName returns the flat output file name for input under label.
// Inputs sharing a basename map to the same name.
func OutputName(label, input string) string {
	return fmt.Sprintf("%s_%s_%s", OutputPrefix, label, filepath.Base(input))
}

// Run processes inputs with intent and returns one item per input, in input
// order. Cancelling ctx stops dispatch; items already running continue until
// they finish or hit their own timeout, and undispatched items are reported
// as cancelled. The error return is reserved for batch-level setup failures;
// even then every item carries its input path and a classified error.
func (o *Orchestrator) Run(ctx context.Context, inputs []string, intent operations.Intent) (jobs.BatchResult, error) {
	label := intent.Label
	if label == "" {
		label = operations.CustomLabel
	}
	result := jobs.BatchResult{
		ID:             o.id(),
		Label:          label,
		ProcessedCount: len(inputs),
		Items:          make([]jobs.ItemResult, len(inputs)),
	}
	if err := os.MkdirAll(o.OutputDir, 0o755); err != nil {
		err = services.Wrap(services.ErrInvalidInput, "batch", "output dir", o.OutputDir, err)
		for i, input := range inputs {
			result.Items[i] = jobs.ItemResult{InputPath: input, Result: jobs.Failed("", jobs.BackendNone, err)}
		}
		return result, err
	}

	ctx = services.WithBatchID(ctx, result.ID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(o.Logger, "batch"))
	started := o.clock()
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("label", label),
		logging.Int("inputs", len(inputs)),
		logging.Int("workers", o.workers()),
	)

	jobCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(o.workers())
	for i, input := range inputs {
		result.Items[i].InputPath = input
		if ctx.Err() != nil {
			result.Items[i].Result = cancelled(ctx, input)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				result.Items[i].Result = cancelled(ctx, input)
				return nil
			}
			itemCtx := services.WithItemIndex(jobCtx, i)
			result.Items[i].Result = o.process(itemCtx, input, label, intent)
			return nil
		})
	}
	_ = g.Wait()

	finished := o.clock()
	status := result.Status()
	attrs := []logging.Attr{
		logging.String("status", string(status)),
		logging.Int("succeeded", result.Succeeded()),
		logging.Int("failed", result.Failed()),
		logging.Duration("elapsed", finished.Sub(started)),
	}
	if status == jobs.StatusComplete {
		logger.Info("batch finished", logging.Args(append(attrs, logging.String(logging.FieldEventType, "batch_complete"))...)...)
	} else {
		logging.WarnWithContext(logger, "batch finished with failures", string(status),
			append(attrs, logging.String(logging.FieldErrorHint, "inspect item errors with mediaforge history show "+result.ID))...)
	}

	if o.Recorder != nil {
		if err := o.Recorder.Record(jobCtx, result, started, finished); err != nil {
			logging.WarnWithContext(logger, "failed to record batch history", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			)
		}
	}
	if o.Notifier != nil {
		if err := o.Notifier.NotifyBatchCompleted(jobCtx, result, finished.Sub(started)); err != nil {
			logging.WarnWithContext(logger, "failed to send batch notification", "notification_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			)
		}
	}
	return result, nil
}

func (o *Orchestrator) process(ctx context.Context, input, label string, intent operations.Intent) jobs.JobResult {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(o.Logger, "batch"))

	asset, err := jobs.NewAsset(input)
	if err != nil {
		return o.fail(logger, jobs.BackendNone, err)
	}
	kind := operations.DetectKind(asset.Path)
	if kind == operations.KindUnknown {
		err := services.Wrap(services.ErrInvalidInput, "batch", asset.Path, "unsupported media type", nil)
		return o.fail(logger, jobs.BackendNone, err)
	}
	req := intent.For(kind)

	// Probed lazily; the long-video rule and target-size bitrate share it.
	var info *ffprobe.MediaInfo
	probe := func() (ffprobe.MediaInfo, error) {
		if info != nil {
			return *info, nil
		}
		got, err := o.Prober.Probe(ctx, asset.Path)
		if err != nil {
			return ffprobe.MediaInfo{}, err
		}
		info = &got
		return got, nil
	}

	if kind == operations.KindVideo && intent.LongVideo.Enabled() && o.Prober != nil {
		got, err := probe()
		if err != nil {
			return o.fail(logger, jobs.BackendNone, err)
		}
		if extended, applied := intent.LongVideo.Apply(req, got.DurationSeconds); applied {
			req = extended
			logger.Debug("long video tags applied",
				logging.Float64("duration_seconds", got.DurationSeconds),
				logging.Float64("threshold_seconds", intent.LongVideo.Seconds),
				logging.String("tags", strings.Join(intent.LongVideo.Tags, ",")),
			)
		}
	}

	chain, err := o.Resolver.Resolve(req, kind)
	if err != nil {
		return o.fail(logger, jobs.BackendNone, err)
	}
	output := filepath.Join(o.OutputDir, OutputName(label, asset.Path))

	var res jobs.JobResult
	switch kind {
	case operations.KindVideo:
		res = o.processVideo(ctx, logger, asset, output, req, chain, probe)
	default:
		res = o.processImage(ctx, logger, asset, output, chain)
	}
	res.Stages = chain.Names()
	return res
}

func (o *Orchestrator) processVideo(ctx context.Context, logger *slog.Logger, asset jobs.MediaAsset, output string, req operations.Request, chain operations.FilterChain, probe func() (ffprobe.MediaInfo, error)) jobs.JobResult {
	var rate *encoding.RateControl
	if chain.Compress {
		size, ok, err := req.Number(operations.PropTargetSizeMB)
		if err != nil {
			return o.fail(logger, jobs.BackendNone, services.Wrap(services.ErrInvalidInput, "batch", asset.Path, "bad target size", err))
		}
		if ok {
			info, err := probe()
			if err != nil {
				return o.fail(logger, jobs.BackendNone, err)
			}
			bitrate, err := encoding.TargetBitrate(size, info.DurationSeconds)
			if err != nil {
				return o.fail(logger, jobs.BackendNone, err)
			}
			rc := encoding.RateControlFor(bitrate)
			rate = &rc
			logger.Debug("bitrate target computed",
				logging.Float64("target_size_mb", size),
				logging.Float64("duration_seconds", info.DurationSeconds),
				logging.Int64("bitrate_bps", bitrate),
			)
		}
	}

	backend, err := o.Video.Execute(ctx, asset.Path, output, chain, rate)
	if err != nil {
		return o.fail(logger, backend, err)
	}
	res := jobs.Succeeded(output, backend)
	if o.Prober != nil {
		if info, err := o.Prober.Probe(ctx, output); err == nil {
			res.Metrics = &jobs.Metrics{
				DurationSeconds: info.DurationSeconds,
				SizeBytes:       info.SizeBytes,
				BitrateBps:      info.BitrateBps,
			}
		} else {
			logger.Debug("output metrics unavailable", logging.Error(err))
		}
	}
	return res
}

func (o *Orchestrator) processImage(ctx context.Context, logger *slog.Logger, asset jobs.MediaAsset, output string, chain operations.FilterChain) jobs.JobResult {
	backend, err := o.Image.Execute(ctx, asset.Path, output, chain)
	if err != nil {
		return o.fail(logger, backend, err)
	}
	res := jobs.Succeeded(output, backend)
	if info, err := os.Stat(output); err == nil {
		res.Metrics = &jobs.Metrics{SizeBytes: info.Size()}
	}
	return res
}

func (o *Orchestrator) fail(logger *slog.Logger, backend jobs.Backend, err error) jobs.JobResult {
	res := jobs.Failed("", backend, err)
	logging.WarnWithContext(logger, "item failed", "item_failed",
		logging.String(logging.FieldErrorKind, string(res.Error.Kind)),
		logging.String(logging.FieldErrorHint, hintFor(res.Error.Kind)),
		logging.Error(err),
	)
	return res
}

func cancelled(ctx context.Context, input string) jobs.JobResult {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = errors.New("context done")
	}
	return jobs.Failed("", jobs.BackendNone, services.Wrap(services.ErrCancelled, "batch", input, "not dispatched", cause))
}

func hintFor(kind services.Kind) string {
	switch kind {
	case services.KindInvalidInput:
		return "check the input path, media type, and tags"
	case services.KindProbeFailure:
		return "verify ffprobe can read the input"
	case services.KindInvalidDuration:
		return "input has no usable duration; drop target_size_mb"
	case services.KindExecutionFailure:
		return "see stderr in the item error"
	case services.KindCancelled:
		return "batch was cancelled before this item started"
	default:
		return ""
	}
}

func (o *Orchestrator) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o *Orchestrator) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

func (o *Orchestrator) id() string {
	if o.newID != nil {
		return o.newID()
	}
	return uuid.NewString()
}
