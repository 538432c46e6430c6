// SPDX-License-Identifier: EPL-2.0

// Package remaster derives loudness correction settings from decoded PCM.
//
// A Profile is computed in one linear pass over the buffer: the pooled
// absolute peak drives the normalizer gain and the mean absolute amplitude
// drives the compressor threshold, ratio and knee. Quiet material gets a
// lower threshold and a harder ratio, loud material is left mostly alone.
package remaster

import (
	"fmt"
	"math"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/utils"
)

// Range is a closed interval reported by a compressor parameter.
type Range struct {
	Min float64
	Max float64
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	return utils.Clamp(v, r.Min, r.Max)
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Bounds are the limits of the compressor stage the profile targets.
type Bounds struct {
	Threshold Range
	Ratio     Range
	Knee      Range
}

// DefaultBounds matches the usual dynamics compressor limits.
var DefaultBounds = Bounds{
	Threshold: Range{Min: -100, Max: 0},
	Ratio:     Range{Min: 1, Max: 20},
	Knee:      Range{Min: 0, Max: 40},
}

// Profile holds the correction applied by the graph.
type Profile struct {
	NormalizerGain float64
	Threshold      float64
	Ratio          float64
	Knee           float64
}

func (p Profile) String() string {
	return fmt.Sprintf("gain=%.2f threshold=%.0fdB ratio=%.0f:1 knee=%.0fdB",
		p.NormalizerGain, p.Threshold, p.Ratio, p.Knee)
}

// NeutralProfile makes every stage a no-op within b.
func NeutralProfile(b Bounds) Profile {
	return Profile{
		NormalizerGain: 1,
		Threshold:      b.Threshold.Max,
		Ratio:          b.Ratio.Min,
		Knee:           b.Knee.Max,
	}
}

// Stats are the raw measurements behind a Profile.
type Stats struct {
	Peak     float64
	Average  float64
	Channels int
	Frames   int
}

// Silent reports whether the buffer held no signal at all.
func (s Stats) Silent() bool { return s.Peak == 0 }

// Measure scans buf once and returns its pooled peak and mean absolute
// amplitude. An empty or nil buffer measures as silence.
func Measure(buf *audio.Buffer) Stats {
	if buf == nil || buf.Channels() == 0 || buf.Frames() == 0 {
		return Stats{}
	}

	var sum, peak float64
	for _, ch := range buf.Data {
		for _, v := range ch {
			a := math.Abs(float64(v))
			sum += a
			if a > peak {
				peak = a
			}
		}
	}

	st := Stats{
		Peak:     peak,
		Channels: buf.Channels(),
		Frames:   buf.Frames(),
	}
	st.Average = sum / float64(st.Channels*st.Frames)

	return st
}

// Derive maps measurements to a profile within b.
func Derive(st Stats, b Bounds) Profile {
	avg := st.Average

	return Profile{
		NormalizerGain: utils.Round2(2 - st.Peak),
		Threshold:      math.Floor(b.Threshold.Clamp(b.Threshold.Min / 2 * (1 - avg))),
		Ratio:          math.Ceil(b.Ratio.Clamp(b.Ratio.Max - avg*b.Ratio.Max)),
		Knee:           math.Floor(b.Knee.Clamp(b.Knee.Max - avg*b.Knee.Max/2)),
	}
}

// Analyze measures buf and derives its profile within b.
func Analyze(buf *audio.Buffer, b Bounds) (Profile, Stats) {
	st := Measure(buf)
	return Derive(st, b), st
}

// Analyzer wraps Analyze with policy.
type Analyzer struct {
	// BypassSilence returns NeutralProfile for silent input instead of the
	// maximal correction the formulas yield.
	BypassSilence bool
}

func (a Analyzer) Analyze(buf *audio.Buffer, b Bounds) (Profile, Stats) {
	st := Measure(buf)
	if a.BypassSilence && st.Silent() {
		return NeutralProfile(b), st
	}

	return Derive(st, b), st
}
