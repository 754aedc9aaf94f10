package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"mediaforge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "mediaforge", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, "mediaforge", "output"); cfg.Paths.OutputDir != want {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, want)
	}
	if cfg.Batch.Workers != 1 {
		t.Fatalf("expected one worker by default, got %d", cfg.Batch.Workers)
	}
	if cfg.Batch.StrictTags {
		t.Fatal("expected strict tags disabled by default")
	}
	if cfg.Video.CRF != 23 || cfg.Video.Preset != "medium" || cfg.Video.Codec != "libx264" {
		t.Fatalf("unexpected video defaults: %+v", cfg.Video)
	}
	if got := cfg.TranscodeTimeout(false); got != 300*time.Second {
		t.Fatalf("unexpected transcode timeout %v", got)
	}
	if got := cfg.TranscodeTimeout(true); got != 600*time.Second {
		t.Fatalf("unexpected compress timeout %v", got)
	}
	if cfg.FramesTimeout() != 120*time.Second || cfg.ExtractAudioTimeout() != 60*time.Second {
		t.Fatalf("unexpected auxiliary timeouts %v %v", cfg.FramesTimeout(), cfg.ExtractAudioTimeout())
	}
	if cfg.Image.Display != ":99" {
		t.Fatalf("unexpected display %q", cfg.Image.Display)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mediaforge.toml")

	custom := config.Default()
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Batch.Workers = 4
	custom.Image.Display = "42"
	custom.Presets = map[string]config.Preset{
		" Archive ": {VideoTags: []string{" Resize_4K ", ""}, ImageTags: []string{"auto_level"}},
	}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Batch.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Batch.Workers)
	}
	if cfg.Image.Display != ":42" {
		t.Fatalf("expected display to gain colon prefix, got %q", cfg.Image.Display)
	}
	preset, ok := cfg.Presets["archive"]
	if !ok {
		t.Fatalf("expected normalized preset key, got %v", cfg.Presets)
	}
	if len(preset.VideoTags) != 1 || preset.VideoTags[0] != "resize_4k" {
		t.Fatalf("unexpected preset tags: %v", preset.VideoTags)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIAFORGE_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("MEDIAFORGE_FFPROBE", "/opt/ffmpeg/bin/ffprobe")
	t.Setenv("MEDIAFORGE_WORKERS", "3")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" || cfg.Tools.FFprobe != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("expected tool overrides, got %+v", cfg.Tools)
	}
	if cfg.Batch.Workers != 3 {
		t.Fatalf("expected worker override, got %d", cfg.Batch.Workers)
	}
}

func TestEnvironmentWorkersMustBeNumeric(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIAFORGE_WORKERS", "many")
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for non-numeric worker override")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"workers", func(c *config.Config) { c.Batch.Workers = 0 }, "batch.workers"},
		{"crf", func(c *config.Config) { c.Video.CRF = 60 }, "video.crf"},
		{"probe timeout", func(c *config.Config) { c.Probe.TimeoutSeconds = 0 }, "probe.timeout_seconds"},
		{"screen", func(c *config.Config) { c.Image.Screen = "big" }, "image.screen"},
		{"webp", func(c *config.Config) { c.Image.WebPQuality = 0 }, "image.webp_quality"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "my-topic" }, "notifications.ntfy_topic"},
		{"long video seconds", func(c *config.Config) { c.Presets = map[string]config.Preset{"long": {LongVideoSeconds: -1}} }, "presets.long.long_video_seconds"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.OutputDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[batch]\nworkerz = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config did not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Batch.DefaultPreset != "web" {
		t.Fatalf("unexpected default preset %q", cfg.Batch.DefaultPreset)
	}
}
