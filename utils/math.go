// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"

	"github.com/samber/lo"
)

// Clamp limits value to the closed range [lo, hi].
func Clamp(value, low, high float64) float64 {
	return lo.Clamp(value, low, high)
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// DBToGain converts decibels to a linear amplitude multiplier.
//
// It is the same curve as exp(dB / (20 * log10(e))).
func DBToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

// GainToDB converts a linear amplitude multiplier to decibels.
// A non-positive gain maps to -Inf.
func GainToDB(gain float64) float64 {
	if gain <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(gain)
}
