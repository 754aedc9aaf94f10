package operations

import "sort"

// DefaultPreset is the entry every unknown preset name resolves to.
const DefaultPreset = "web"

// LongVideoThreshold is the duration, in seconds, past which the web preset
// speeds videos up.
const LongVideoThreshold = 60

// Preset maps a format label onto per-kind tag lists. LongVideoTags are
// added to the video request when the probed input runs longer than
// LongVideoSeconds.
type Preset struct {
	Name             string
	VideoTags        []string
	ImageTags        []string
	LongVideoTags    []string
	LongVideoSeconds float64
}

// Intent converts the preset into an Intent. props are copied into both
// requests.
func (p Preset) Intent(props map[string]string) Intent {
	video := NewRequest(p.VideoTags...)
	image := NewRequest(p.ImageTags...)
	for k, v := range props {
		video.SetProp(k, v)
		image.SetProp(k, v)
	}
	return Intent{
		Label:     p.Name,
		Video:     video,
		Image:     image,
		LongVideo: LongVideoRule{Seconds: p.LongVideoSeconds, Tags: p.LongVideoTags},
	}
}

var builtinPresets = map[string]Preset{
	"web": {
		Name:             "web",
		VideoTags:        []string{TagResize1080p, TagEnhance},
		ImageTags:        []string{TagResize1080p, TagAutoLevel},
		LongVideoTags:    []string{TagSpeed2x},
		LongVideoSeconds: LongVideoThreshold,
	},
	"social": {
		Name:      "social",
		VideoTags: []string{TagResize720p, TagEnhance, TagCompress},
		ImageTags: []string{TagResize720p, TagEnhanceColor, TagSharpen},
	},
	"presentation": {
		Name:      "presentation",
		VideoTags: []string{TagResize1080p, TagEnhance, TagAudioEnhance},
		ImageTags: []string{TagResize1080p, TagAutoLevel, TagBrighten},
	},
	"mobile": {
		Name:      "mobile",
		VideoTags: []string{TagResize720p, TagCompress},
		ImageTags: []string{TagResize720p},
	},
}

// PresetTable is a total lookup from preset name to Preset.
type PresetTable struct {
	entries  map[string]Preset
	fallback string
}

// NewPresetTable returns the built-in presets with overrides layered on top.
// Override names pass through SanitizeLabel since they become output labels.
// defaultName selects the entry unknown names resolve to; it falls back to
// DefaultPreset when it names no entry.
func NewPresetTable(defaultName string, overrides map[string]Preset) PresetTable {
	entries := make(map[string]Preset, len(builtinPresets)+len(overrides))
	for name, p := range builtinPresets {
		entries[name] = p
	}
	for name, p := range overrides {
		key := SanitizeLabel(name)
		if key == "" {
			continue
		}
		p.Name = key
		entries[key] = p
	}
	fallback := SanitizeLabel(defaultName)
	if _, ok := entries[fallback]; !ok {
		fallback = DefaultPreset
	}
	return PresetTable{entries: entries, fallback: fallback}
}

// Lookup returns the preset for name, or the default entry with found=false.
func (t PresetTable) Lookup(name string) (Preset, bool) {
	if t.entries == nil {
		t = NewPresetTable(DefaultPreset, nil)
	}
	if p, ok := t.entries[SanitizeLabel(name)]; ok {
		return p, true
	}
	return t.entries[t.fallback], false
}

// Names lists preset names in sorted order.
func (t PresetTable) Names() []string {
	if t.entries == nil {
		t = NewPresetTable(DefaultPreset, nil)
	}
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
