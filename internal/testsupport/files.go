package testsupport

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

// FFmpegCopyScript copies the file after -i to the last argument and logs
// the argument list next to the script.
const FFmpegCopyScript = `in=""
prev=""
last=""
for arg in "$@"; do
  if [ "$prev" = "-i" ]; then in="$arg"; fi
  prev="$arg"
  last="$arg"
done
echo "$@" >> "$0.args"
cp "$in" "$last"`

// FFprobeScript reports one video and one audio stream with the given
// container duration.
func FFprobeScript(durationSeconds string) string {
	return `cat <<'JSON'
{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio"}
  ],
  "format": {"duration": "` + durationSeconds + `", "size": "1048576", "bit_rate": "800000"}
}
JSON`
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Repeat("B", int(size))), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteStub writes an executable shell script named name under dir and
// returns its path. body is everything after the shebang line.
func WriteStub(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// ReadStubArgs returns the argument lines a stub recorded.
func ReadStubArgs(t testing.TB, stubPath string) []string {
	t.Helper()
	data, err := os.ReadFile(stubPath + ".args")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read stub args: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// WritePNG writes a decodable width×height gradient image.
func WritePNG(t testing.TB, path string, width, height int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(40 + (x*120)/max(width, 1)),
				G: uint8(60 + (y*120)/max(height, 1)),
				B: 90,
				A: 255,
			})
		}
	}
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}
