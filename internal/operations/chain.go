package operations

// FilterChain is the ordered list of stages for one job plus the encode
// intent derived from the request. It is built once and not mutated.
type FilterChain struct {
	Kind     MediaKind
	Stages   []Stage
	Compress bool
}

// Empty reports whether the chain has no stages and no encode intent.
func (c FilterChain) Empty() bool {
	return len(c.Stages) == 0 && !c.Compress
}

// VideoStages returns every stage that belongs in the video filter graph.
func (c FilterChain) VideoStages() []Stage {
	out := make([]Stage, 0, len(c.Stages))
	for _, s := range c.Stages {
		if s.Category() != CategoryAudio {
			out = append(out, s)
		}
	}
	return out
}

// AudioStages returns the audio stages in order.
func (c FilterChain) AudioStages() []Stage {
	out := make([]Stage, 0, 2)
	for _, s := range c.Stages {
		if s.Category() == CategoryAudio {
			out = append(out, s)
		}
	}
	return out
}

// Muted reports whether the chain drops audio.
func (c FilterChain) Muted() bool {
	for _, s := range c.Stages {
		if _, ok := s.(MuteAudio); ok {
			return true
		}
	}
	return false
}

// Names renders each stage as a short token for logs and summaries.
func (c FilterChain) Names() []string {
	out := make([]string, 0, len(c.Stages))
	for _, s := range c.Stages {
		out = append(out, StageName(s))
	}
	return out
}

// StageName returns a short token describing s.
func StageName(s Stage) string {
	switch v := s.(type) {
	case Scale:
		return "scale"
	case ColorAdjust:
		return string(v.Kind)
	case SpeedChange:
		return "speed"
	case FrameRate:
		return "fps"
	case Stabilize:
		return "stabilize"
	case MuteAudio:
		return "mute"
	case AudioFilter:
		return "audio_" + string(v.Kind)
	default:
		return "unknown"
	}
}
