package imageedit_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"mediaforge/internal/imageedit"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/operations"
	"mediaforge/internal/services"
	"mediaforge/internal/testsupport"
	"mediaforge/internal/vdisplay"
)

type fakeDisplays struct {
	calls atomic.Int32
	err   error
}

func (f *fakeDisplays) Acquire(context.Context) (vdisplay.Display, error) {
	f.calls.Add(1)
	if f.err != nil {
		return vdisplay.Display{}, f.err
	}
	return vdisplay.Display{Name: ":99"}, nil
}

func imageChain(t *testing.T, tags ...string) operations.FilterChain {
	t.Helper()
	chain, err := operations.Resolve(operations.NewRequest(tags...), operations.KindImage)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return chain
}

func newExecutor(t *testing.T, interpreterBody string, displays imageedit.DisplayProvider) *imageedit.Executor {
	t.Helper()
	interp := testsupport.WriteStub(t, t.TempDir(), "python3", interpreterBody)
	exec := &imageedit.Executor{
		Primary:        &imageedit.Primary{Interpreter: interp, Displays: displays},
		PrimaryEnabled: true,
		Fallback:       imageedit.Fallback{JPEGQuality: 92, WebPQuality: 90},
		Logger:         logging.NewNop(),
	}
	t.Cleanup(func() { _ = exec.Close() })
	return exec
}

func TestPrimaryLoadFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	testsupport.WritePNG(t, input, 64, 48)

	displays := &fakeDisplays{}
	exec := newExecutor(t, `echo "No module named gimpfu" >&2; exit 3`, displays)

	backend, err := exec.Execute(context.Background(), input, output, imageChain(t, "auto_level", "sharpen"))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if backend != jobs.BackendFallback {
		t.Fatalf("expected fallback backend, got %q", backend)
	}
	if displays.calls.Load() != 0 {
		t.Fatal("display must not be acquired when the bridge is unavailable")
	}

	before, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	after, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if bytes.Equal(before, after) {
		t.Fatal("expected processed output to differ from input")
	}
	if exec.PrimaryAvailable(context.Background()) {
		t.Fatal("expected capability probe to report unavailable")
	}
}

func TestPrimarySuccessReportsPrimary(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	testsupport.WritePNG(t, input, 16, 16)

	// The stub echoes DISPLAY so the test can assert it was passed explicitly.
	body := `if [ "$2" = "--probe" ]; then echo MEDIAFORGE_PRIMARY_OK; exit 0; fi
cp "$2" "$3"
echo "display=$DISPLAY ops=$4 $5" > "$3.log"
echo MEDIAFORGE_PRIMARY_OK`
	displays := &fakeDisplays{}
	exec := newExecutor(t, body, displays)

	backend, err := exec.Execute(context.Background(), input, output, imageChain(t, "resize_720p", "brighten"))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if backend != jobs.BackendPrimary {
		t.Fatalf("expected primary backend, got %q", backend)
	}
	log, err := os.ReadFile(output + ".log")
	if err != nil {
		t.Fatalf("read stub log: %v", err)
	}
	if got := strings.TrimSpace(string(log)); got != "display=:99 ops=scale=1280x720 brighten=10:10" {
		t.Fatalf("unexpected primary invocation %q", got)
	}
	if displays.calls.Load() != 1 {
		t.Fatalf("expected one display acquisition, got %d", displays.calls.Load())
	}
	if os.Getenv("DISPLAY") == ":99" {
		t.Fatal("parent environment must not be mutated")
	}
}

func TestPrimaryRunFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	testsupport.WritePNG(t, input, 16, 16)

	body := `if [ "$2" = "--probe" ]; then echo MEDIAFORGE_PRIMARY_OK; exit 0; fi
echo "plug-in crashed" >&2
exit 1`
	exec := newExecutor(t, body, &fakeDisplays{})

	backend, err := exec.Execute(context.Background(), input, output, imageChain(t, "brighten"))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if backend != jobs.BackendFallback {
		t.Fatalf("expected fallback after primary failure, got %q", backend)
	}
}

func TestMissingMarkerFallsBack(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	testsupport.WritePNG(t, input, 16, 16)

	body := `if [ "$2" = "--probe" ]; then echo MEDIAFORGE_PRIMARY_OK; exit 0; fi
cp "$2" "$3"`
	exec := newExecutor(t, body, &fakeDisplays{})

	backend, err := exec.Execute(context.Background(), input, output, imageChain(t, "auto_level"))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if backend != jobs.BackendFallback {
		t.Fatalf("expected fallback when primary printed no marker, got %q", backend)
	}
}

func TestDisplayFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	testsupport.WritePNG(t, input, 16, 16)

	exec := newExecutor(t, `echo MEDIAFORGE_PRIMARY_OK`, &fakeDisplays{
		err: services.Wrap(services.ErrBackendUnavailable, "vdisplay", "start", "", errors.New("no Xvfb")),
	})
	backend, err := exec.Execute(context.Background(), input, filepath.Join(dir, "out.png"), imageChain(t, "sharpen"))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if backend != jobs.BackendFallback {
		t.Fatalf("expected fallback, got %q", backend)
	}
}

func TestBothBackendsFail(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	testsupport.WriteFile(t, input, 128) // not a decodable image

	exec := newExecutor(t, `exit 3`, &fakeDisplays{})
	backend, err := exec.Execute(context.Background(), input, filepath.Join(dir, "out.png"), imageChain(t, "sharpen"))
	if !errors.Is(err, services.ErrExecutionFailure) {
		t.Fatalf("expected execution failure, got %v", err)
	}
	if backend != jobs.BackendFallback {
		t.Fatalf("expected fallback as last backend attempted, got %q", backend)
	}
}

func TestPrimaryDisabledUsesFallbackDirectly(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	testsupport.WritePNG(t, input, 16, 16)

	displays := &fakeDisplays{}
	exec := newExecutor(t, `echo should-not-run; exit 1`, displays)
	exec.PrimaryEnabled = false

	backend, err := exec.Execute(context.Background(), input, filepath.Join(dir, "out.webp"), imageChain(t, "enhance_color"))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if backend != jobs.BackendFallback || displays.calls.Load() != 0 {
		t.Fatalf("unexpected backend %q or display use", backend)
	}
}
