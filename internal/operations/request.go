package operations

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Property names understood by the resolver and the orchestrator.
const (
	PropTargetSizeMB = "target_size_mb"
	PropFPS          = "fps"
)

// Request is an unordered set of symbolic tags plus named properties.
type Request struct {
	tags  map[string]struct{}
	props map[string]string
}

// NewRequest builds a request from tags. Tags are case-insensitive and
// duplicates collapse.
func NewRequest(tags ...string) Request {
	r := Request{tags: make(map[string]struct{}, len(tags)), props: map[string]string{}}
	for _, tag := range tags {
		r.AddTag(tag)
	}
	return r
}

// AddTag inserts one tag.
func (r *Request) AddTag(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return
	}
	if r.tags == nil {
		r.tags = map[string]struct{}{}
	}
	r.tags[tag] = struct{}{}
}

// SetProp records a named property.
func (r *Request) SetProp(name, value string) {
	if r.props == nil {
		r.props = map[string]string{}
	}
	r.props[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
}

// SetNumber records a numeric property.
func (r *Request) SetNumber(name string, value float64) {
	r.SetProp(name, strconv.FormatFloat(value, 'f', -1, 64))
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	out := Request{tags: make(map[string]struct{}, len(r.tags)), props: make(map[string]string, len(r.props))}
	for tag := range r.tags {
		out.tags[tag] = struct{}{}
	}
	for k, v := range r.props {
		out.props[k] = v
	}
	return out
}

// Has reports whether tag is present.
func (r Request) Has(tag string) bool {
	_, ok := r.tags[tag]
	return ok
}

// Tags returns the tag set in sorted order.
func (r Request) Tags() []string {
	out := make([]string, 0, len(r.tags))
	for tag := range r.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Prop returns a raw property value.
func (r Request) Prop(name string) (string, bool) {
	v, ok := r.props[name]
	return v, ok
}

// Number parses a numeric property. A present but malformed or non-finite
// value is an error.
func (r Request) Number(name string) (float64, bool, error) {
	raw, ok := r.props[name]
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, fmt.Errorf("property %s: %q is not a number", name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, fmt.Errorf("property %s: %q is not a finite number", name, raw)
	}
	return v, true, nil
}

// ParseProps parses "key=value" pairs into the request.
func (r *Request) ParseProps(pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("property %q: expected key=value", pair)
		}
		r.SetProp(key, value)
	}
	return nil
}
