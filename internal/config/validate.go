package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var screenPattern = regexp.MustCompile(`^\d+x\d+x\d+$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateImage(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	timeouts := []struct {
		key   string
		value int
	}{
		{"probe.timeout_seconds", c.Probe.TimeoutSeconds},
		{"video.timeout_seconds", c.Video.TimeoutSeconds},
		{"video.compress_timeout_seconds", c.Video.CompressTimeoutSeconds},
		{"video.frames_timeout_seconds", c.Video.FramesTimeoutSeconds},
		{"video.extract_audio_timeout_seconds", c.Video.ExtractAudioTimeoutSeconds},
		{"image.timeout_seconds", c.Image.TimeoutSeconds},
	}
	for _, entry := range timeouts {
		if entry.value <= 0 {
			return fmt.Errorf("%s must be positive", entry.key)
		}
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.CRF < 0 || c.Video.CRF > 51 {
		return errors.New("video.crf must be between 0 and 51")
	}
	if c.Video.CompressCRF < 0 || c.Video.CompressCRF > 51 {
		return errors.New("video.compress_crf must be between 0 and 51")
	}
	return nil
}

func (c *Config) validateImage() error {
	if !screenPattern.MatchString(c.Image.Screen) {
		return fmt.Errorf("image.screen must look like WIDTHxHEIGHTxDEPTH, got %q", c.Image.Screen)
	}
	if c.Image.FallbackJPEGQuality < 1 || c.Image.FallbackJPEGQuality > 100 {
		return errors.New("image.fallback_jpeg_quality must be between 1 and 100")
	}
	if c.Image.WebPQuality < 1 || c.Image.WebPQuality > 100 {
		return errors.New("image.webp_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 1 {
		return errors.New("batch.workers must be at least 1")
	}
	for name, p := range c.Presets {
		if math.IsNaN(p.LongVideoSeconds) || math.IsInf(p.LongVideoSeconds, 0) || p.LongVideoSeconds < 0 {
			return fmt.Errorf("presets.%s.long_video_seconds must be a non-negative number", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := strings.TrimSpace(c.Notifications.NtfyTopic)
	if topic == "" {
		return nil
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) URL, got %q", topic)
	}
	if c.Notifications.RequestTimeoutSeconds < 0 {
		return errors.New("notifications.request_timeout_seconds must not be negative")
	}
	return nil
}
