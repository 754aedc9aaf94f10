package encoding

import (
	"fmt"
	"strconv"
	"strings"

	"mediaforge/internal/operations"
)

// VideoFilter renders the video stages of chain as one -vf expression. It
// returns "" when the chain has no video stages.
func VideoFilter(chain operations.FilterChain) (string, error) {
	parts := make([]string, 0, len(chain.Stages))
	for _, stage := range chain.VideoStages() {
		expr, err := videoStageFilter(stage)
		if err != nil {
			return "", err
		}
		parts = append(parts, expr)
	}
	return strings.Join(parts, ","), nil
}

// AudioFilter renders the audio stages of chain as one -af expression. A speed
// change also retimes audio so both streams keep the same length.
func AudioFilter(chain operations.FilterChain) string {
	if chain.Muted() {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, stage := range chain.Stages {
		switch s := stage.(type) {
		case operations.AudioFilter:
			if s.Kind == operations.AudioEnhance {
				parts = append(parts,
					"volume="+num(operations.ParamValue(s.Params, "volume", 1.2)),
					"highpass=f="+num(operations.ParamValue(s.Params, "highpass", 200)),
				)
			}
		case operations.SpeedChange:
			parts = append(parts, "atempo="+num(s.Factor))
		}
	}
	return strings.Join(parts, ",")
}

func videoStageFilter(stage operations.Stage) (string, error) {
	switch s := stage.(type) {
	case operations.Scale:
		return fmt.Sprintf("scale=%d:%d", s.Width, s.Height), nil
	case operations.ColorAdjust:
		switch s.Kind {
		case operations.ColorEqualize:
			return fmt.Sprintf("eq=brightness=%s:contrast=%s",
				num(operations.ParamValue(s.Params, "brightness", 0)),
				num(operations.ParamValue(s.Params, "contrast", 1))), nil
		case operations.ColorGaussianBlur:
			return "gblur=sigma=" + num(operations.ParamValue(s.Params, "sigma", 10)), nil
		}
		return "", fmt.Errorf("color adjustment %q has no video filter", s.Kind)
	case operations.Stabilize:
		return fmt.Sprintf("vidstabdetect=shakiness=%d:accuracy=%d", s.Shakiness, s.Accuracy), nil
	case operations.SpeedChange:
		return "setpts=" + num(1/s.Factor) + "*PTS", nil
	case operations.FrameRate:
		return "fps=" + num(s.FPS), nil
	}
	return "", fmt.Errorf("stage %s has no video filter", operations.StageName(stage))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
