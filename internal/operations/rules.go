package operations

import "fmt"

// Tag vocabulary.
const (
	TagResize1080p    = "resize_1080p"
	TagResize720p     = "resize_720p"
	TagResize4K       = "resize_4k"
	TagEnhance        = "enhance"
	TagBlurBackground = "blur_background"
	TagStabilize      = "stabilize"
	TagSpeed2x        = "speed_2x"
	TagSpeedHalf      = "speed_half"
	TagChangeFPS      = "change_fps"
	TagRemoveAudio    = "remove_audio"
	TagAudioEnhance   = "audio_enhance"
	TagCompress       = "compress"
	TagAutoLevel      = "auto_level"
	TagEnhanceColor   = "enhance_color"
	TagSharpen        = "sharpen"
	TagBrighten       = "brighten"
)

// builder produces the stage for the winning tag of a rule.
type builder func(tag string, req Request) (Stage, error)

// rule is one row of a resolution table. A rule with several tags is an
// exclusive group: the first tag present, in slice order, wins.
type rule struct {
	tags  []string
	build builder
}

var resizeTargets = map[string]Scale{
	TagResize1080p: {Width: 1920, Height: 1080},
	TagResize720p:  {Width: 1280, Height: 720},
	TagResize4K:    {Width: 3840, Height: 2160},
}

var speedFactors = map[string]float64{
	TagSpeed2x:   2.0,
	TagSpeedHalf: 0.5,
}

func scaleRule(tag string, _ Request) (Stage, error) {
	return resizeTargets[tag], nil
}

func fixed(stage Stage) builder {
	return func(string, Request) (Stage, error) { return stage, nil }
}

func speedRule(tag string, _ Request) (Stage, error) {
	return SpeedChange{Factor: speedFactors[tag]}, nil
}

func frameRateRule(tag string, req Request) (Stage, error) {
	fps, ok, err := req.Number(PropFPS)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s requires the %s property", tag, PropFPS)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("%s: %s must be positive, got %v", tag, PropFPS, fps)
	}
	return FrameRate{FPS: fps}, nil
}

var resizeGroup = []string{TagResize1080p, TagResize720p, TagResize4K}

// videoRules is the video resolution table.
var videoRules = []rule{
	{tags: resizeGroup, build: scaleRule},
	{tags: []string{TagEnhance}, build: fixed(ColorAdjust{
		Kind:   ColorEqualize,
		Params: []Param{{Name: "brightness", Value: 0.1}, {Name: "contrast", Value: 1.2}},
	})},
	{tags: []string{TagBlurBackground}, build: fixed(ColorAdjust{
		Kind:   ColorGaussianBlur,
		Params: []Param{{Name: "sigma", Value: 10}},
	})},
	{tags: []string{TagStabilize}, build: fixed(Stabilize{Shakiness: 5, Accuracy: 9})},
	{tags: []string{TagSpeed2x, TagSpeedHalf}, build: speedRule},
	{tags: []string{TagChangeFPS}, build: frameRateRule},
	{tags: []string{TagRemoveAudio, TagAudioEnhance}, build: func(tag string, _ Request) (Stage, error) {
		if tag == TagRemoveAudio {
			return MuteAudio{}, nil
		}
		return AudioFilter{
			Kind:   AudioEnhance,
			Params: []Param{{Name: "volume", Value: 1.2}, {Name: "highpass", Value: 200}},
		}, nil
	}},
}

// imageRules is the image resolution table.
var imageRules = []rule{
	{tags: resizeGroup, build: scaleRule},
	{tags: []string{TagAutoLevel}, build: fixed(ColorAdjust{
		Kind:   ColorLevelStretch,
		Params: []Param{{Name: "alpha", Value: 1.2}, {Name: "beta", Value: 10}},
	})},
	{tags: []string{TagEnhanceColor}, build: fixed(ColorAdjust{
		Kind:   ColorBalance,
		Params: []Param{{Name: "alpha", Value: 1.1}, {Name: "shadows", Value: 10}},
	})},
	{tags: []string{TagSharpen}, build: fixed(ColorAdjust{
		Kind:   ColorSharpen,
		Params: []Param{{Name: "radius", Value: 1}, {Name: "amount", Value: 1}},
	})},
	{tags: []string{TagBrighten}, build: fixed(ColorAdjust{
		Kind:   ColorBrighten,
		Params: []Param{{Name: "brightness", Value: 10}, {Name: "contrast", Value: 10}},
	})},
}

// intentTags are recognised but resolve to encode intents rather than stages.
var intentTags = map[MediaKind][]string{
	KindVideo: {TagCompress},
}

var rulesByKind = map[MediaKind][]rule{
	KindVideo: videoRules,
	KindImage: imageRules,
}

// vocabulary is every tag any kind understands.
var vocabulary = buildVocabulary()

func buildVocabulary() map[string]struct{} {
	out := map[string]struct{}{}
	for _, rules := range rulesByKind {
		for _, r := range rules {
			for _, tag := range r.tags {
				out[tag] = struct{}{}
			}
		}
	}
	for _, tags := range intentTags {
		for _, tag := range tags {
			out[tag] = struct{}{}
		}
	}
	return out
}

// KnownTag reports whether any media kind understands tag.
func KnownTag(tag string) bool {
	_, ok := vocabulary[tag]
	return ok
}
