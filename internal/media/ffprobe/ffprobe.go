package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"mediaforge/internal/procexec"
	"mediaforge/internal/services"
)

// DefaultTimeout bounds a probe when the caller does not configure one.
const DefaultTimeout = 30 * time.Second

// VideoStream describes the first video stream of a file.
type VideoStream struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CodecName string `json:"codec_name"`
}

// AudioStream describes the first audio stream of a file.
type AudioStream struct {
	CodecName string `json:"codec_name"`
}

// MediaInfo is the typed summary of a probe.
type MediaInfo struct {
	DurationSeconds float64      `json:"duration_seconds"`
	SizeBytes       int64        `json:"size_bytes"`
	BitrateBps      int64        `json:"bitrate_bps"`
	Video           *VideoStream `json:"video_stream,omitempty"`
	Audio           *AudioStream `json:"audio_stream,omitempty"`
}

// report mirrors the subset of ffprobe's JSON the pipeline reads. Numeric
// format fields arrive as strings.
type report struct {
	Streams []stream `json:"streams"`
	Format  format   `json:"format"`
}

type stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type format struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

// Prober runs ffprobe through a procexec.Runner.
type Prober struct {
	Binary  string
	Timeout time.Duration
	Runner  procexec.Runner
}

// New returns a Prober for binary with the given deadline.
func New(binary string, timeout time.Duration) *Prober {
	return &Prober{Binary: binary, Timeout: timeout, Runner: procexec.Default}
}

// Args returns the ffprobe argument list for path.
func Args(path string) []string {
	return []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", path}
}

// Probe inspects path.
func (p *Prober) Probe(ctx context.Context, path string) (MediaInfo, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return MediaInfo{}, services.Wrap(services.ErrProbeFailure, "probe", "", "empty path", nil)
	}
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runner := p.Runner
	if runner == nil {
		runner = procexec.Default
	}

	res, err := runner.Run(ctx, procexec.Spec{Binary: binary, Args: Args(path), Timeout: timeout})
	if err != nil {
		if errors.Is(err, services.ErrCancelled) {
			return MediaInfo{}, err
		}
		msg := "ffprobe failed"
		if services.IsTimeout(err) {
			msg = "ffprobe timed out"
		}
		return MediaInfo{}, services.Wrap(services.ErrProbeFailure, "probe", path, msg, err)
	}
	info, err := Parse(res.Stdout)
	if err != nil {
		return MediaInfo{}, services.Wrap(services.ErrProbeFailure, "probe", path, "", err)
	}
	return info, nil
}

// Parse decodes an ffprobe JSON report into MediaInfo.
func Parse(data []byte) (MediaInfo, error) {
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return MediaInfo{}, errors.New("malformed ffprobe output: " + err.Error())
	}
	if len(r.Streams) == 0 {
		return MediaInfo{}, errors.New("no streams found")
	}

	info := MediaInfo{
		DurationSeconds: nonNegative(parseFloat(r.Format.Duration)),
		SizeBytes:       int64(nonNegative(parseFloat(r.Format.Size))),
		BitrateBps:      int64(nonNegative(parseFloat(r.Format.BitRate))),
	}
	for _, s := range r.Streams {
		switch strings.ToLower(s.CodecType) {
		case "video":
			if info.Video == nil {
				info.Video = &VideoStream{Width: s.Width, Height: s.Height, CodecName: s.CodecName}
			}
		case "audio":
			if info.Audio == nil {
				info.Audio = &AudioStream{CodecName: s.CodecName}
			}
		}
	}
	return info, nil
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return parsed
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
