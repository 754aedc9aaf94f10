package encoding

import (
	"fmt"
	"math"

	"mediaforge/internal/services"
)

const bitsPerMegabyte = 8 * 1024 * 1024

// TargetBitrate returns the video bitrate in bits per second that fits
// targetSizeMB into durationSeconds, truncated toward zero. The value is not
// clamped; callers derive maxrate and bufsize from it.
func TargetBitrate(targetSizeMB, durationSeconds float64) (int64, error) {
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) || durationSeconds <= 0 {
		return 0, services.Wrap(services.ErrInvalidDuration, "bitrate", "", fmt.Sprintf("duration must be positive, got %v", durationSeconds), nil)
	}
	if math.IsNaN(targetSizeMB) || math.IsInf(targetSizeMB, 0) || targetSizeMB <= 0 {
		return 0, services.Wrap(services.ErrInvalidInput, "bitrate", "", fmt.Sprintf("target size must be positive and finite, got %v", targetSizeMB), nil)
	}
	bps := targetSizeMB * bitsPerMegabyte / durationSeconds
	if bps >= math.MaxInt64 {
		return 0, services.Wrap(services.ErrInvalidInput, "bitrate", "", fmt.Sprintf("target size %v MB is out of range", targetSizeMB), nil)
	}
	return int64(bps), nil
}

// RateControl is the bitrate triple passed to the encoder.
type RateControl struct {
	Bitrate int64
	MaxRate int64
	BufSize int64
}

// RateControlFor derives maxrate (1.5x) and bufsize (1x) from a bitrate.
func RateControlFor(bitrate int64) RateControl {
	return RateControl{
		Bitrate: bitrate,
		MaxRate: int64(float64(bitrate) * 1.5),
		BufSize: bitrate,
	}
}
