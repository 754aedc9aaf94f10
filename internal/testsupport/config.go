package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mediaforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The primary image backend is disabled unless a test opts in, so no test
// depends on GIMP being installed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Image.PrimaryEnabled = false
	cfgVal.Batch.RecordHistory = false

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithWorkers sets the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.Workers = n
	}
}

// WithPrimaryImage enables the primary image backend with interpreter.
func WithPrimaryImage(interpreter string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Image.PrimaryEnabled = true
		b.cfg.Tools.ImageInterpreter = interpreter
	}
}

// WithHistory enables batch history recording.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.RecordHistory = true
	}
}

// WithFFmpegStubs points the config at stub ffmpeg and ffprobe scripts. The
// ffprobe stub reports durationSeconds; the ffmpeg stub copies its input to
// its output and appends its arguments to <bin>/ffmpeg.args.
func WithFFmpegStubs(durationSeconds string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		b.cfg.Tools.FFmpeg = WriteStub(b.t, binDir, "ffmpeg", FFmpegCopyScript)
		b.cfg.Tools.FFprobe = WriteStub(b.t, binDir, "ffprobe", FFprobeScript(durationSeconds))
	}
}

// WithStubbedBinaries writes no-op executables for names and prepends their
// directory to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			WriteStub(b.t, binDir, name, "exit 0")
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
