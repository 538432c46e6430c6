// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloatToPCM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    float64
		bitDepth int
		want     int
	}{
		{"zero", 0, 16, 0},
		{"max positive 16", 1, 16, math.MaxInt16},
		{"max negative 16", -1, 16, -math.MaxInt16},
		{"half 16", 0.5, 16, 16383},
		{"clamp over max", 1.5, 16, math.MaxInt16},
		{"clamp under min", -100, 16, -math.MaxInt16},
		{"max positive 24", 1, 24, 8388607},
		{"max positive 8", 1, 8, 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FloatToPCM(tt.input, tt.bitDepth)
			if diff := got - tt.want; diff > 1 || diff < -1 {
				t.Errorf("FloatToPCM(%v, %d) = %v, want %v", tt.input, tt.bitDepth, got, tt.want)
			}
		})
	}
}

func TestPCMToFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v        int
		bitDepth int
		want     float32
	}{
		{0, 16, 0},
		{-32768, 16, -1},
		{16384, 16, 0.5},
		{-8388608, 24, -1},
		{-128, 8, -1},
	}

	for _, tt := range tests {
		if got := PCMToFloat(tt.v, tt.bitDepth); got != tt.want {
			t.Errorf("PCMToFloat(%d, %d) = %v, want %v", tt.v, tt.bitDepth, got, tt.want)
		}
	}
}

// TestFloatToPCM_Monotonic tests that the conversion never decreases.
func TestFloatToPCM_Monotonic(t *testing.T) {
	t.Parallel()

	prev := FloatToPCM(-1.0, 16)
	for f := -0.99; f <= 1.0; f += 0.01 {
		curr := FloatToPCM(f, 16)
		if curr < prev {
			t.Errorf("FloatToPCM not monotonic: f=%v gives %v, previous was %v", f, curr, prev)
		}
		prev = curr
	}
}

func TestFloatToPCM_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = FloatToPCM(0.5, 16)
	})
	if allocs > 0 {
		t.Errorf("FloatToPCM allocated %v times, want 0", allocs)
	}
}
