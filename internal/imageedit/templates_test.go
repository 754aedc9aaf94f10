package imageedit_test

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"mediaforge/internal/imageedit"
)

func TestLookupTemplateDefaults(t *testing.T) {
	tpl, found := imageedit.LookupTemplate("Thumbnail")
	if !found || tpl.Width != 1280 || tpl.Height != 720 {
		t.Fatalf("unexpected thumbnail template %+v found=%v", tpl, found)
	}
	tpl, found = imageedit.LookupTemplate("poster")
	if found || tpl.Name != imageedit.DefaultTemplate {
		t.Fatalf("expected default template, got %+v found=%v", tpl, found)
	}
}

func TestTemplateRenderLayout(t *testing.T) {
	tpl, _ := imageedit.LookupTemplate("blog_header")
	img := tpl.Render()
	if img.Bounds().Size() != image.Pt(1200, 400) {
		t.Fatalf("unexpected size %v", img.Bounds().Size())
	}
	checks := []struct {
		x, y int
		want color.NRGBA
	}{
		{10, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},   // background
		{50, 200, color.NRGBA{R: 200, G: 200, B: 200, A: 255}},  // border
		{60, 200, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},  // inside border
		{600, 200, color.NRGBA{R: 240, G: 240, B: 240, A: 255}}, // content
	}
	for _, c := range checks {
		if got := img.NRGBAAt(c.x, c.y); got != c.want {
			t.Fatalf("pixel (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestRenderTemplateWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "thumb.png")
	tpl, err := imageedit.Fallback{}.RenderTemplate("thumbnail", out)
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open rendered template: %v", err)
	}
	if img.Bounds().Dx() != tpl.Width || img.Bounds().Dy() != tpl.Height {
		t.Fatalf("unexpected rendered size %v", img.Bounds())
	}
}
