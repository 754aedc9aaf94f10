package operations

// Category orders stages inside a chain.
type Category int

const (
	CategoryScale Category = iota
	CategoryColor
	CategoryStabilize
	CategorySpeed
	CategoryAudio
)

func (c Category) String() string {
	switch c {
	case CategoryScale:
		return "scale"
	case CategoryColor:
		return "color"
	case CategoryStabilize:
		return "stabilize"
	case CategorySpeed:
		return "speed"
	case CategoryAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Stage is one step of a FilterChain. The concrete types below are the only
// implementations.
type Stage interface {
	Category() Category
	isStage()
}

// Param is a named numeric argument of an adjustment.
type Param struct {
	Name  string
	Value float64
}

// ParamValue returns the named parameter or fallback.
func ParamValue(params []Param, name string, fallback float64) float64 {
	for _, p := range params {
		if p.Name == name {
			return p.Value
		}
	}
	return fallback
}

// ColorKind names a color or tonal adjustment.
type ColorKind string

const (
	ColorEqualize     ColorKind = "equalize"      // brightness/contrast curve
	ColorGaussianBlur ColorKind = "gaussian_blur" // whole-frame blur
	ColorLevelStretch ColorKind = "level_stretch" // auto levels
	ColorBalance      ColorKind = "color_balance" // saturation lift
	ColorSharpen      ColorKind = "sharpen"       // unsharp mask
	ColorBrighten     ColorKind = "brighten"      // fixed brightness and contrast lift
)

// AudioKind names an audio filter.
type AudioKind string

const AudioEnhance AudioKind = "enhance"

// Scale resizes to Width×Height. Images are fitted inside the box.
type Scale struct {
	Width  int
	Height int
}

// ColorAdjust is a color or tonal filter.
type ColorAdjust struct {
	Kind   ColorKind
	Params []Param
}

// SpeedChange retimes playback. Factor 2 plays twice as fast.
type SpeedChange struct {
	Factor float64
}

// FrameRate resamples the output frame rate.
type FrameRate struct {
	FPS float64
}

// Stabilize runs motion analysis for stabilization.
type Stabilize struct {
	Shakiness int
	Accuracy  int
}

// MuteAudio drops all audio streams.
type MuteAudio struct{}

// AudioFilter is a non-destructive audio filter.
type AudioFilter struct {
	Kind   AudioKind
	Params []Param
}

func (Scale) Category() Category       { return CategoryScale }
func (ColorAdjust) Category() Category { return CategoryColor }
func (Stabilize) Category() Category   { return CategoryStabilize }
func (SpeedChange) Category() Category { return CategorySpeed }
func (FrameRate) Category() Category   { return CategorySpeed }
func (MuteAudio) Category() Category   { return CategoryAudio }
func (AudioFilter) Category() Category { return CategoryAudio }

func (Scale) isStage()       {}
func (ColorAdjust) isStage() {}
func (Stabilize) isStage()   {}
func (SpeedChange) isStage() {}
func (FrameRate) isStage()   {}
func (MuteAudio) isStage()   {}
func (AudioFilter) isStage() {}
