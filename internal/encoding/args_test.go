package encoding_test

import (
	"reflect"
	"testing"

	"mediaforge/internal/encoding"
	"mediaforge/internal/operations"
)

var defaultSettings = encoding.Settings{
	Codec:          "libx264",
	Preset:         "medium",
	CRF:            23,
	CompressCRF:    28,
	CompressPreset: "slow",
}

func resolve(t *testing.T, tags ...string) operations.FilterChain {
	t.Helper()
	chain, err := operations.Resolve(operations.NewRequest(tags...), operations.KindVideo)
	if err != nil {
		t.Fatalf("Resolve(%v): %v", tags, err)
	}
	return chain
}

func TestTranscodeArgsFullChain(t *testing.T) {
	chain := resolve(t, "resize_1080p", "enhance", "stabilize", "audio_enhance")
	args, err := encoding.TranscodeArgs("in.mp4", "out.mp4", chain, defaultSettings, nil)
	if err != nil {
		t.Fatalf("TranscodeArgs returned error: %v", err)
	}
	want := []string{
		"-i", "in.mp4",
		"-vf", "scale=1920:1080,eq=brightness=0.1:contrast=1.2,vidstabdetect=shakiness=5:accuracy=9",
		"-af", "volume=1.2,highpass=f=200",
		"-c:v", "libx264", "-preset", "medium", "-crf", "23",
		"-y", "out.mp4",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args:\n got %q\nwant %q", args, want)
	}
}

func TestTranscodeArgsOmitsEmptyFilters(t *testing.T) {
	args, err := encoding.TranscodeArgs("in.mp4", "out.mp4", resolve(t), defaultSettings, nil)
	if err != nil {
		t.Fatalf("TranscodeArgs returned error: %v", err)
	}
	want := []string{"-i", "in.mp4", "-c:v", "libx264", "-preset", "medium", "-crf", "23", "-y", "out.mp4"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args %q", args)
	}
}

func TestTranscodeArgsMuteAndSpeed(t *testing.T) {
	args, err := encoding.TranscodeArgs("in.mp4", "out.mp4", resolve(t, "speed_2x", "remove_audio", "audio_enhance"), defaultSettings, nil)
	if err != nil {
		t.Fatalf("TranscodeArgs returned error: %v", err)
	}
	want := []string{"-i", "in.mp4", "-vf", "setpts=0.5*PTS", "-an", "-c:v", "libx264", "-preset", "medium", "-crf", "23", "-y", "out.mp4"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args %q", args)
	}
}

func TestTranscodeArgsSpeedRetimesAudio(t *testing.T) {
	args, err := encoding.TranscodeArgs("in.mp4", "out.mp4", resolve(t, "speed_half"), defaultSettings, nil)
	if err != nil {
		t.Fatalf("TranscodeArgs returned error: %v", err)
	}
	want := []string{"-i", "in.mp4", "-vf", "setpts=2*PTS", "-af", "atempo=0.5", "-c:v", "libx264", "-preset", "medium", "-crf", "23", "-y", "out.mp4"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args %q", args)
	}
}

func TestTranscodeArgsCompressModes(t *testing.T) {
	chain := resolve(t, "resize_720p", "compress")

	args, err := encoding.TranscodeArgs("in.mp4", "out.mp4", chain, defaultSettings, nil)
	if err != nil {
		t.Fatalf("TranscodeArgs returned error: %v", err)
	}
	wantCRF := []string{"-i", "in.mp4", "-vf", "scale=1280:720", "-c:v", "libx264", "-preset", "slow", "-crf", "28", "-y", "out.mp4"}
	if !reflect.DeepEqual(args, wantCRF) {
		t.Fatalf("unexpected CRF compress args %q", args)
	}

	rc := encoding.RateControlFor(838860)
	args, err = encoding.TranscodeArgs("in.mp4", "out.mp4", chain, defaultSettings, &rc)
	if err != nil {
		t.Fatalf("TranscodeArgs returned error: %v", err)
	}
	wantRate := []string{
		"-i", "in.mp4", "-vf", "scale=1280:720",
		"-c:v", "libx264", "-preset", "slow",
		"-b:v", "838860", "-maxrate", "1258290", "-bufsize", "838860",
		"-y", "out.mp4",
	}
	if !reflect.DeepEqual(args, wantRate) {
		t.Fatalf("unexpected bitrate args %q", args)
	}
}

func TestTranscodeArgsChangeFPSAndBlur(t *testing.T) {
	req := operations.NewRequest("change_fps", "blur_background")
	req.SetNumber(operations.PropFPS, 30)
	chain, err := operations.Resolve(req, operations.KindVideo)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	vf, err := encoding.VideoFilter(chain)
	if err != nil {
		t.Fatalf("VideoFilter: %v", err)
	}
	if vf != "gblur=sigma=10,fps=30" {
		t.Fatalf("unexpected filter %q", vf)
	}
}

func TestVideoFilterRejectsImageStages(t *testing.T) {
	chain, err := operations.Resolve(operations.NewRequest("sharpen"), operations.KindImage)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := encoding.VideoFilter(chain); err == nil {
		t.Fatal("expected error for image-only stage")
	}
}

func TestAuxiliaryArgs(t *testing.T) {
	frames := encoding.FramesArgs("frames/%04d.png", "out.mp4", 24)
	wantFrames := []string{"-framerate", "24", "-i", "frames/%04d.png", "-c:v", "libx264", "-pix_fmt", "yuv420p", "-y", "out.mp4"}
	if !reflect.DeepEqual(frames, wantFrames) {
		t.Fatalf("unexpected frames args %q", frames)
	}
	audio := encoding.ExtractAudioArgs("in.mp4", "out.aac")
	wantAudio := []string{"-i", "in.mp4", "-vn", "-acodec", "copy", "-y", "out.aac"}
	if !reflect.DeepEqual(audio, wantAudio) {
		t.Fatalf("unexpected extract args %q", audio)
	}
}
