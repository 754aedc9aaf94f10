package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultConfigPath = "~/.config/mediaforge/config.toml"
	projectConfigName = "mediaforge.toml"
)

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	StateDir  string `toml:"state_dir"`
}

// Tools names the external executables the pipeline shells out to.
type Tools struct {
	FFmpeg           string `toml:"ffmpeg"`
	FFprobe          string `toml:"ffprobe"`
	ImageInterpreter string `toml:"image_interpreter"`
	Xvfb             string `toml:"xvfb"`
}

// Probe contains media inspection settings.
type Probe struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Video contains transcode settings.
type Video struct {
	Codec                      string `toml:"codec"`
	Preset                     string `toml:"preset"`
	CRF                        int    `toml:"crf"`
	CompressCRF                int    `toml:"compress_crf"`
	CompressPreset             string `toml:"compress_preset"`
	TimeoutSeconds             int    `toml:"timeout_seconds"`
	CompressTimeoutSeconds     int    `toml:"compress_timeout_seconds"`
	FramesTimeoutSeconds       int    `toml:"frames_timeout_seconds"`
	ExtractAudioTimeoutSeconds int    `toml:"extract_audio_timeout_seconds"`
}

// Image contains settings for the image backends and the virtual display.
type Image struct {
	PrimaryEnabled      bool     `toml:"primary_enabled"`
	Display             string   `toml:"display"`
	Screen              string   `toml:"screen"`
	TimeoutSeconds      int      `toml:"timeout_seconds"`
	BridgePaths         []string `toml:"bridge_paths"`
	FallbackJPEGQuality int      `toml:"fallback_jpeg_quality"`
	WebPQuality         int      `toml:"webp_quality"`
}

// Batch contains orchestrator settings.
type Batch struct {
	Workers       int    `toml:"workers"`
	StrictTags    bool   `toml:"strict_tags"`
	DefaultPreset string `toml:"default_preset"`
	RecordHistory bool   `toml:"record_history"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Notifications contains ntfy settings for batch completion messages.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	OnlyFailures          bool   `toml:"only_failures"`
}

// Preset is a user-defined format label mapped to per-kind tag sets.
// LongVideoTags apply to videos longer than LongVideoSeconds.
type Preset struct {
	VideoTags        []string `toml:"video_tags"`
	ImageTags        []string `toml:"image_tags"`
	LongVideoTags    []string `toml:"long_video_tags,omitempty"`
	LongVideoSeconds float64  `toml:"long_video_seconds,omitempty"`
}

// Config encapsulates all configuration values for mediaforge.
//
// Configuration sections by subsystem:
//   - Paths: output, log, and state directories
//   - Tools: external executables (ffmpeg, ffprobe, image interpreter, Xvfb)
//   - Probe: media inspection timeout
//   - Video: codec, quality, and per-command timeouts
//   - Image: primary backend, virtual display, and fallback encoder quality
//   - Batch: worker count, tag strictness, default preset, history
//   - Logging: log format and level
//   - Notifications: optional ntfy topic for finished batches
//   - Presets: user presets merged over the built-in table
type Config struct {
	Paths         Paths             `toml:"paths"`
	Tools         Tools             `toml:"tools"`
	Probe         Probe             `toml:"probe"`
	Video         Video             `toml:"video"`
	Image         Image             `toml:"image"`
	Batch         Batch             `toml:"batch"`
	Logging       Logging           `toml:"logging"`
	Notifications Notifications     `toml:"notifications"`
	Presets       map[string]Preset `toml:"presets"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the output, log, and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the batch history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// DisplayLockPath returns the lock file guarding virtual display startup.
func (c *Config) DisplayLockPath() string {
	return filepath.Join(c.Paths.StateDir, "display.lock")
}

// ProbeTimeout returns the media inspection deadline.
func (c *Config) ProbeTimeout() time.Duration {
	return seconds(c.Probe.TimeoutSeconds)
}

// TranscodeTimeout returns the deadline for a transcode; compression runs
// get the longer budget.
func (c *Config) TranscodeTimeout(compress bool) time.Duration {
	if compress {
		return seconds(c.Video.CompressTimeoutSeconds)
	}
	return seconds(c.Video.TimeoutSeconds)
}

// ImageTimeout returns the deadline for a primary image backend run.
func (c *Config) ImageTimeout() time.Duration {
	return seconds(c.Image.TimeoutSeconds)
}

// FramesTimeout returns the deadline for assembling an image sequence.
func (c *Config) FramesTimeout() time.Duration {
	return seconds(c.Video.FramesTimeoutSeconds)
}

// ExtractAudioTimeout returns the deadline for copying out an audio track.
func (c *Config) ExtractAudioTimeout() time.Duration {
	return seconds(c.Video.ExtractAudioTimeoutSeconds)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
