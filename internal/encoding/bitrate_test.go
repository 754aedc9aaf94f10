package encoding_test

import (
	"errors"
	"math"
	"testing"

	"mediaforge/internal/encoding"
	"mediaforge/internal/services"
)

func TestTargetBitrate(t *testing.T) {
	got, err := encoding.TargetBitrate(10.0, 100.0)
	if err != nil {
		t.Fatalf("TargetBitrate returned error: %v", err)
	}
	if got != 838860 {
		t.Fatalf("TargetBitrate(10, 100) = %d, want 838860", got)
	}
}

func TestTargetBitrateInvalidDuration(t *testing.T) {
	for _, duration := range []float64{0, -5, math.NaN()} {
		_, err := encoding.TargetBitrate(10, duration)
		if !errors.Is(err, services.ErrInvalidDuration) {
			t.Fatalf("duration %v: expected invalid duration, got %v", duration, err)
		}
		if services.KindOf(err) != services.KindInvalidDuration {
			t.Fatalf("duration %v: unexpected kind %q", duration, services.KindOf(err))
		}
	}
}

func TestTargetBitrateRejectsBadSize(t *testing.T) {
	for _, size := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1), math.MaxFloat64} {
		got, err := encoding.TargetBitrate(size, 10)
		if !errors.Is(err, services.ErrInvalidInput) {
			t.Fatalf("size %v: expected invalid input, got %d %v", size, got, err)
		}
	}
	if _, err := encoding.TargetBitrate(10, math.Inf(1)); !errors.Is(err, services.ErrInvalidDuration) {
		t.Fatalf("expected invalid duration for infinite duration, got %v", err)
	}
}

func TestRateControlFor(t *testing.T) {
	rc := encoding.RateControlFor(838860)
	if rc.MaxRate != 1258290 || rc.BufSize != 838860 {
		t.Fatalf("unexpected rate control %+v", rc)
	}
}
