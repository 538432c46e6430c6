// SPDX-License-Identifier: EPL-2.0

package utils

// FloatToPCM clamps x to [-1, 1] and scales it to a signed integer sample of
// the given bit depth. Positive full scale maps to the largest positive value
// so it never overflows.
func FloatToPCM(x float64, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	full := float64(int64(1)<<(bitDepth-1)) - 1
	return int(x * full)
}

// PCMToFloat is the inverse of FloatToPCM for a sample of the given bit depth.
func PCMToFloat(v int, bitDepth int) float32 {
	return float32(v) / float32(int64(1)<<(bitDepth-1))
}
