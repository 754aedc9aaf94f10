package imageedit

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"mediaforge/internal/fileutil"
	"mediaforge/internal/operations"
	"mediaforge/internal/services"
)

var sharpenKernel = [9]float64{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

// Fallback approximates the primary operations in process.
type Fallback struct {
	JPEGQuality int
	WebPQuality int
}

// Process applies chain to input and writes output. An empty chain between
// files of the same format copies the bytes instead of re-encoding.
func (f Fallback) Process(input, output string, chain operations.FilterChain) error {
	if chain.Empty() && fileutil.SameFormat(input, output) {
		if err := fileutil.CopyVerified(input, output); err != nil {
			return services.Wrap(services.ErrExecutionFailure, "image", "fallback", "copy input", err)
		}
		return nil
	}
	img, err := decode(input)
	if err != nil {
		return services.Wrap(services.ErrExecutionFailure, "image", "fallback", "decode input", err)
	}
	img, err = Apply(img, chain)
	if err != nil {
		return services.Wrap(services.ErrExecutionFailure, "image", "fallback", "", err)
	}
	if err := f.encode(img, output); err != nil {
		_ = os.Remove(output)
		return services.Wrap(services.ErrExecutionFailure, "image", "fallback", "encode output", err)
	}
	return nil
}

// Apply runs chain over img.
func Apply(img image.Image, chain operations.FilterChain) (image.Image, error) {
	out := img
	for _, stage := range chain.Stages {
		switch s := stage.(type) {
		case operations.Scale:
			out = imaging.Fit(out, s.Width, s.Height, imaging.Lanczos)
		case operations.ColorAdjust:
			switch s.Kind {
			case operations.ColorLevelStretch:
				out = scaleOffset(out,
					operations.ParamValue(s.Params, "alpha", 1.2),
					operations.ParamValue(s.Params, "beta", 10))
			case operations.ColorBalance:
				out = scaleOffset(out, operations.ParamValue(s.Params, "alpha", 1.1), 0)
			case operations.ColorSharpen:
				out = imaging.Convolve3x3(out, sharpenKernel, nil)
			case operations.ColorBrighten:
				// Contrast is on the primary's -127..127 scale.
				contrast := operations.ParamValue(s.Params, "contrast", 10)
				out = scaleOffset(out, 1+contrast/127, operations.ParamValue(s.Params, "brightness", 10))
			default:
				return nil, fmt.Errorf("color adjustment %q is not supported for images", s.Kind)
			}
		default:
			return nil, fmt.Errorf("stage %s is not supported for images", operations.StageName(stage))
		}
	}
	return out, nil
}

// scaleOffset maps every color channel v to clamp(alpha*v + beta).
func scaleOffset(img image.Image, alpha, beta float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp8(alpha*float64(c.R) + beta),
			G: clamp8(alpha*float64(c.G) + beta),
			B: clamp8(alpha*float64(c.B) + beta),
			A: c.A,
		}
	})
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

func isWebP(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".webp")
}

func decode(path string) (image.Image, error) {
	if isWebP(path) {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return webp.Decode(file)
	}
	return imaging.Open(path, imaging.AutoOrientation(true))
}

func (f Fallback) encode(img image.Image, path string) error {
	if isWebP(path) {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := webp.Encode(file, img, &webp.Options{Quality: float32(qualityOr(f.WebPQuality, 90))}); err != nil {
			_ = file.Close()
			return err
		}
		return file.Close()
	}
	return imaging.Save(img, path, imaging.JPEGQuality(qualityOr(f.JPEGQuality, 92)))
}

func qualityOr(q, fallback int) int {
	if q < 1 || q > 100 {
		return fallback
	}
	return q
}
