package encoding

import (
	"context"
	"fmt"
	"time"

	"mediaforge/internal/procexec"
	"mediaforge/internal/services"
)

// FramesArgs builds the argument list that assembles an image sequence
// (e.g. frames/%04d.png) into an H.264 video.
func FramesArgs(pattern, output string, fps float64) []string {
	return []string{
		"-framerate", num(fps),
		"-i", pattern,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-y", output,
	}
}

// ExtractAudioArgs builds the argument list that stream-copies the audio
// track of input into output.
func ExtractAudioArgs(input, output string) []string {
	return []string{"-i", input, "-vn", "-acodec", "copy", "-y", output}
}

// FramesToVideo assembles an image sequence into a video.
func (e *Executor) FramesToVideo(ctx context.Context, pattern, output string, fps float64, timeout time.Duration) error {
	if fps <= 0 {
		return services.Wrap(services.ErrInvalidInput, "frames", "", fmt.Sprintf("fps must be positive, got %v", fps), nil)
	}
	return e.runAux(ctx, "frames", FramesArgs(pattern, output, fps), output, timeout)
}

// ExtractAudio copies the audio track of input into output.
func (e *Executor) ExtractAudio(ctx context.Context, input, output string, timeout time.Duration) error {
	return e.runAux(ctx, "extract_audio", ExtractAudioArgs(input, output), output, timeout)
}

func (e *Executor) runAux(ctx context.Context, stage string, args []string, output string, timeout time.Duration) error {
	if _, err := e.runner().Run(ctx, procexec.Spec{Binary: e.binary(), Args: args, Timeout: timeout}); err != nil {
		removePartial(output)
		return services.Wrap(services.ErrExecutionFailure, stage, "run ffmpeg", "", err)
	}
	return nil
}
