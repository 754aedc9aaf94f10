package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"mediaforge/internal/fileutil"
)

func TestCopyVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "dst.png")

	content := []byte("not really a png")
	if err := os.WriteFile(src, content, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.CopyVerified(src, dst); err != nil {
		t.Fatalf("CopyVerified: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("unexpected mode %v", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestCopyVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.png")
	if err := fileutil.CopyVerified(filepath.Join(dir, "missing.png"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected no destination, got %v", err)
	}
}

func TestSameFormat(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"a.JPG", "b.jpeg", true},
		{"a.png", "b.png", true},
		{"a.png", "b.webp", false},
	}
	for _, tc := range cases {
		if got := fileutil.SameFormat(tc.a, tc.b); got != tc.want {
			t.Fatalf("SameFormat(%q, %q): got %v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
