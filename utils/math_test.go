// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		value, low, hi float64
		want           float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -3, -1, 1, -1},
		{"above", 42, -100, 0, 0},
		{"at low edge", -100, -100, 0, -100},
		{"at high edge", 20, 1, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Clamp(tt.value, tt.low, tt.hi); got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.low, tt.hi, got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{2, 2},
		{1.004, 1},
		// 1.005 is 1.00499999... in binary and rounds down
		{1.005, 1},
		{1.0051, 1.01},
		{1.2345, 1.23},
		{0.999, 1},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDBToGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		db, want float64
	}{
		{0, 1},
		{-20, 0.1},
		{-40, 0.01},
		{-100, 1e-5},
		{6.0206, 2},
	}

	for _, tt := range tests {
		got := DBToGain(tt.db)
		if math.Abs(got-tt.want) > 1e-4*tt.want {
			t.Errorf("DBToGain(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}

// TestDBToGain_MatchesNaturalLog checks the exp/log10(e) form gives the same curve.
func TestDBToGain_MatchesNaturalLog(t *testing.T) {
	t.Parallel()

	for db := -100.0; db <= 0; db += 0.5 {
		want := math.Exp(db / (20 * math.Log10(math.E)))
		if got := DBToGain(db); math.Abs(got-want) > 1e-12 {
			t.Fatalf("DBToGain(%v) = %v, want %v", db, got, want)
		}
	}
}

func TestGainToDB_RoundTrip(t *testing.T) {
	t.Parallel()

	for db := -100.0; db <= 0; db += 0.25 {
		if got := GainToDB(DBToGain(db)); math.Abs(got-db) > 1e-9 {
			t.Fatalf("GainToDB(DBToGain(%v)) = %v", db, got)
		}
	}

	if got := GainToDB(0); !math.IsInf(got, -1) {
		t.Errorf("GainToDB(0) = %v, want -Inf", got)
	}
}

func BenchmarkDBToGain(b *testing.B) {
	var result float64

	b.ReportAllocs()
	for i := range b.N {
		result = DBToGain(-float64(i % 100))
	}
	_ = result
}
