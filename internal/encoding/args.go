package encoding

import (
	"strconv"

	"mediaforge/internal/operations"
)

// Settings are the encoder defaults applied to every transcode.
type Settings struct {
	Codec          string
	Preset         string
	CRF            int
	CompressCRF    int
	CompressPreset string
}

// TranscodeArgs builds the ffmpeg argument list for one job. rate, when
// non-nil, replaces CRF with bitrate control.
func TranscodeArgs(input, output string, chain operations.FilterChain, s Settings, rate *RateControl) ([]string, error) {
	args := []string{"-i", input}

	vf, err := VideoFilter(chain)
	if err != nil {
		return nil, err
	}
	if vf != "" {
		args = append(args, "-vf", vf)
	}
	if chain.Muted() {
		args = append(args, "-an")
	} else if af := AudioFilter(chain); af != "" {
		args = append(args, "-af", af)
	}

	preset, crf := s.Preset, s.CRF
	if chain.Compress {
		preset, crf = s.CompressPreset, s.CompressCRF
	}
	args = append(args, "-c:v", s.Codec)
	if preset != "" {
		args = append(args, "-preset", preset)
	}
	if rate != nil {
		args = append(args,
			"-b:v", strconv.FormatInt(rate.Bitrate, 10),
			"-maxrate", strconv.FormatInt(rate.MaxRate, 10),
			"-bufsize", strconv.FormatInt(rate.BufSize, 10),
		)
	} else {
		args = append(args, "-crf", strconv.Itoa(crf))
	}
	return append(args, "-y", output), nil
}
