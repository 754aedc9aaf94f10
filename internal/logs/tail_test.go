package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"mediaforge/internal/logs"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func TestLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediaforge.log")
	writeLog(t, path, "one\ntwo\nthree\nfour\n")

	lines, offset, err := logs.Last(path, 2, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if want := []string{"three", "four"}; !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected lines: got %v want %v", lines, want)
	}
	if offset != 19 {
		t.Fatalf("unexpected offset %d", offset)
	}
}

func TestLastFiltersByBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediaforge.log")
	writeLog(t, path, "batch_id=aaa start\nbatch_id=bbb start\nbatch_id=aaa done\npartial")

	lines, _, err := logs.Last(path, 10, logs.BatchFilter("aaa"))
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if want := []string{"batch_id=aaa start", "batch_id=aaa done"}; !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected lines: got %v want %v", lines, want)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "absent.log"), 5, nil)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %v %d %v", lines, offset, err)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediaforge.log")
	writeLog(t, path, "old\n")
	_, offset, err := logs.Last(path, 1, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, nil, func(line string) { got <- line })
	}()
	time.Sleep(100 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("new line\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	select {
	case line := <-got:
		if line != "new line" {
			t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for followed line")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
}
