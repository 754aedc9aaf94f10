package operations

import (
	"regexp"
	"strings"
)

// CustomLabel names intents built from ad-hoc tags.
const CustomLabel = "custom"

// Intent pairs a format label with the request to apply per media kind. The
// label drives output file names.
type Intent struct {
	Label     string
	Video     Request
	Image     Request
	LongVideo LongVideoRule
}

// LongVideoRule adds Tags to the video request of inputs longer than Seconds.
type LongVideoRule struct {
	Seconds float64
	Tags    []string
}

// Enabled reports whether the rule can ever fire. Callers skip probing when
// it cannot.
func (r LongVideoRule) Enabled() bool {
	return r.Seconds > 0 && len(r.Tags) > 0
}

// Apply returns req with the rule's tags added when durationSeconds exceeds
// the threshold. req itself is never modified.
func (r LongVideoRule) Apply(req Request, durationSeconds float64) (Request, bool) {
	if !r.Enabled() || !(durationSeconds > r.Seconds) {
		return req, false
	}
	out := req.Clone()
	for _, tag := range r.Tags {
		out.AddTag(tag)
	}
	return out, true
}

// CustomIntent applies the same request to every media kind.
func CustomIntent(label string, req Request) Intent {
	if label = SanitizeLabel(label); label == "" {
		label = CustomLabel
	}
	return Intent{Label: label, Video: req, Image: req}
}

// For returns the request for kind.
func (i Intent) For(kind MediaKind) Request {
	if kind == KindImage {
		return i.Image
	}
	return i.Video
}

var unsafeLabel = regexp.MustCompile(`[^a-z0-9_-]+`)

// SanitizeLabel lower-cases label and replaces characters that are unsafe in
// file names.
func SanitizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.Trim(unsafeLabel.ReplaceAllString(label, "_"), "_")
}
