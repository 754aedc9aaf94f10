package imageedit

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultTemplate is the entry unknown template names resolve to.
const DefaultTemplate = "social_media"

// Template describes a blank design canvas.
type Template struct {
	Name       string
	Width      int
	Height     int
	Background color.NRGBA
}

var templates = map[string]Template{
	"social_media": {Name: "social_media", Width: 1080, Height: 1080, Background: hexColor("#f8f9fa")},
	"blog_header":  {Name: "blog_header", Width: 1200, Height: 400, Background: hexColor("#ffffff")},
	"thumbnail":    {Name: "thumbnail", Width: 1280, Height: 720, Background: hexColor("#2c3e50")},
	"presentation": {Name: "presentation", Width: 1920, Height: 1080, Background: hexColor("#ffffff")},
}

var (
	borderColor  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	contentColor = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
)

const (
	borderInset  = 50
	borderWidth  = 2
	contentInset = 100
)

// LookupTemplate returns the named template or the default with found=false.
func LookupTemplate(name string) (Template, bool) {
	if t, ok := templates[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, true
	}
	return templates[DefaultTemplate], false
}

// TemplateNames lists known templates in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render draws the template: background, a thin border inset from the edge,
// and a filled content area inside it.
func (t Template) Render() *image.NRGBA {
	img := imaging.New(t.Width, t.Height, t.Background)
	if t.Width > 2*borderInset && t.Height > 2*borderInset {
		outer := image.Rect(borderInset, borderInset, t.Width-borderInset, t.Height-borderInset)
		img = fill(img, outer, borderColor)
		img = fill(img, outer.Inset(borderWidth), t.Background)
	}
	if t.Width > 2*contentInset && t.Height > 2*contentInset {
		img = fill(img, image.Rect(contentInset, contentInset, t.Width-contentInset, t.Height-contentInset), contentColor)
	}
	return img
}

// RenderTemplate writes the named template to output using the encoder
// settings of f.
func (f Fallback) RenderTemplate(name, output string) (Template, error) {
	t, _ := LookupTemplate(name)
	if err := f.encode(t.Render(), output); err != nil {
		return t, fmt.Errorf("write template %s: %w", t.Name, err)
	}
	return t, nil
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) *image.NRGBA {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return img
	}
	return imaging.Paste(img, imaging.New(r.Dx(), r.Dy(), c), r.Min)
}

func hexColor(hex string) color.NRGBA {
	var r, g, b uint8
	_, _ = fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b)
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
