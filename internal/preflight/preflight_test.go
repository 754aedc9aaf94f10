package preflight_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaforge/internal/preflight"
	"mediaforge/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := preflight.CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := preflight.RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_StubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFFmpegStubs("10"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if blocking := preflight.Blocking(results); len(blocking) != 0 {
		t.Fatalf("unexpected blocking failures %+v", blocking)
	}
}

func TestRunAll_MissingFFmpegBlocks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tools.FFmpeg = filepath.Join(t.TempDir(), "no-ffmpeg")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	blocking := preflight.Blocking(preflight.RunAll(context.Background(), cfg))
	found := false
	for _, r := range blocking {
		if r.Name == "FFmpeg" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected FFmpeg in blocking results, got %+v", blocking)
	}
}

type checker bool

func (c checker) PrimaryAvailable(context.Context) bool { return bool(c) }

func TestCheckPrimaryImage(t *testing.T) {
	disabled := testsupport.NewConfig(t)
	if r := preflight.CheckPrimaryImage(context.Background(), disabled, checker(false)); !r.Passed || r.Detail != "Disabled" {
		t.Fatalf("unexpected disabled result %+v", r)
	}

	enabled := testsupport.NewConfig(t, testsupport.WithPrimaryImage("python3"))
	if r := preflight.CheckPrimaryImage(context.Background(), enabled, checker(true)); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
	r := preflight.CheckPrimaryImage(context.Background(), enabled, checker(false))
	if r.Passed || !r.Optional {
		t.Fatalf("expected optional failure, got %+v", r)
	}
}

func TestProbeDisplay(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	running := preflight.ProbeDisplay(context.Background(), cfg, func(context.Context, string, string) (bool, error) {
		return true, nil
	})
	if !running.Running || !strings.Contains(running.Detail(), "running") {
		t.Fatalf("unexpected probe %+v", running)
	}

	failed := preflight.ProbeDisplay(context.Background(), cfg, func(context.Context, string, string) (bool, error) {
		return false, errors.New("proc unavailable")
	})
	if failed.Running || !strings.Contains(failed.Detail(), "proc unavailable") {
		t.Fatalf("unexpected failed probe %q", failed.Detail())
	}
}
