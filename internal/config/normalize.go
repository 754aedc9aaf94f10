package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeVideo()
	c.normalizeImage()
	if err := c.normalizeBatch(); err != nil {
		return err
	}
	c.normalizePresets()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	if value, ok := os.LookupEnv("MEDIAFORGE_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFmpeg = value
	}
	if value, ok := os.LookupEnv("MEDIAFORGE_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFprobe = value
	}
	c.Tools.FFmpeg = defaultString(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.FFprobe = defaultString(c.Tools.FFprobe, defaultFFprobe)
	c.Tools.ImageInterpreter = defaultString(c.Tools.ImageInterpreter, defaultImageInterpreter)
	c.Tools.Xvfb = defaultString(c.Tools.Xvfb, defaultXvfb)
	return nil
}

func (c *Config) normalizeVideo() {
	c.Video.Codec = defaultString(c.Video.Codec, defaultVideoCodec)
	c.Video.Preset = defaultString(c.Video.Preset, defaultVideoPreset)
	c.Video.CompressPreset = defaultString(c.Video.CompressPreset, defaultCompressPreset)
	if c.Video.FramesTimeoutSeconds == 0 {
		c.Video.FramesTimeoutSeconds = defaultFramesTimeout
	}
	if c.Video.ExtractAudioTimeoutSeconds == 0 {
		c.Video.ExtractAudioTimeoutSeconds = defaultExtractAudioTimeout
	}
}

func (c *Config) normalizeImage() {
	c.Image.Display = defaultString(c.Image.Display, defaultDisplay)
	if !strings.HasPrefix(c.Image.Display, ":") {
		c.Image.Display = ":" + c.Image.Display
	}
	c.Image.Screen = defaultString(c.Image.Screen, defaultScreen)
	paths := c.Image.BridgePaths[:0]
	for _, p := range c.Image.BridgePaths {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	c.Image.BridgePaths = paths
}

func (c *Config) normalizeBatch() error {
	if value, ok := os.LookupEnv("MEDIAFORGE_WORKERS"); ok && strings.TrimSpace(value) != "" {
		workers, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("MEDIAFORGE_WORKERS: %w", err)
		}
		c.Batch.Workers = workers
	}
	c.Batch.DefaultPreset = strings.ToLower(defaultString(c.Batch.DefaultPreset, defaultPresetName))
	return nil
}

func (c *Config) normalizePresets() {
	if len(c.Presets) == 0 {
		return
	}
	normalized := make(map[string]Preset, len(c.Presets))
	for name, preset := range c.Presets {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		normalized[key] = Preset{
			VideoTags:        normalizeTags(preset.VideoTags),
			ImageTags:        normalizeTags(preset.ImageTags),
			LongVideoTags:    normalizeTags(preset.LongVideoTags),
			LongVideoSeconds: preset.LongVideoSeconds,
		}
	}
	c.Presets = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(defaultString(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultString(c.Logging.Level, defaultLogLevel))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.ToLower(strings.TrimSpace(tag)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
