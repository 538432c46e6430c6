// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/smartplay/utils"
)

// Resampler converts a Source to another sample rate with Catmull-Rom
// interpolation. Output frame k sits at source position k*srcRate/dstRate,
// computed exactly, so a stream of N frames yields ceil(N*dstRate/srcRate)
// frames. When downsampling, input passes a one-pole low-pass first.
type Resampler struct {
	src      Source
	srcRate  int64
	dstRate  int64
	channels int

	// window holds source frames base-1 .. base+2.
	window [4][]float32
	base   int64
	pulled int64 // real source frames read so far
	primed bool
	done   bool
	out    int64 // output frames produced

	in       []float32
	inPos    int
	inLen    int
	srcEOF   bool
	lowpass  []float32
	alpha    float32
	filtered bool
}

// NewResampler wraps src. Channel count is preserved.
func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(1, src.Channels())

	r := &Resampler{
		src:      src,
		srcRate:  int64(src.SampleRate()),
		dstRate:  int64(dstRate),
		channels: channels,
		in:       make([]float32, 1024*channels),
		lowpass:  make([]float32, channels),
		alpha:    1,
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	if dstRate > 0 && dstRate < src.SampleRate() {
		// corner just under the new Nyquist frequency
		fc := 0.45 * float64(dstRate)
		r.alpha = float32(1 - math.Exp(-2*math.Pi*fc/float64(src.SampleRate())))
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Length is the output frame count when the source announces its own.
func (r *Resampler) Length() int64 {
	n := LengthOf(r.src)
	if n == 0 || r.srcRate <= 0 || r.dstRate <= 0 {
		return 0
	}
	return (n*r.dstRate + r.srcRate - 1) / r.srcRate
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}
	return nil
}

// pull copies the next source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) pull(dst []float32) (bool, error) {
	for empty := 0; r.inPos >= r.inLen; empty++ {
		if r.srcEOF {
			return false, nil
		}
		if empty >= maxEmptyReads {
			return false, io.ErrNoProgress
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("resampler source: %w", err)
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.alpha < 1 {
		if !r.filtered {
			copy(r.lowpass, dst)
			r.filtered = true
		}
		for c, v := range dst {
			r.lowpass[c] += r.alpha * (v - r.lowpass[c])
			dst[c] = r.lowpass[c]
		}
	}

	r.pulled++
	return true, nil
}

// fill loads dst with the next frame, repeating the last one past the end.
func (r *Resampler) fill(dst, last []float32) error {
	ok, err := r.pull(dst)
	if err != nil {
		return err
	}
	if !ok {
		copy(dst, last)
	}
	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.pull(r.window[1])
	if err != nil {
		return err
	}
	if !ok {
		r.done = true
		return nil
	}

	copy(r.window[0], r.window[1])
	if err := r.fill(r.window[2], r.window[1]); err != nil {
		return err
	}
	if err := r.fill(r.window[3], r.window[2]); err != nil {
		return err
	}

	r.primed = true
	return nil
}

// advance slides the window one source frame forward.
func (r *Resampler) advance() error {
	oldest := r.window[0]
	r.window[0], r.window[1], r.window[2] = r.window[1], r.window[2], r.window[3]
	r.window[3] = oldest
	r.base++

	return r.fill(r.window[3], r.window[2])
}

// ReadSamples fills dst with interleaved frames at the target rate. dst must
// hold whole frames.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.dstRate <= 0 || r.srcRate <= 0 {
		return 0, fmt.Errorf("%w: rate %d -> %d", ErrInvalidDstSize, r.srcRate, r.dstRate)
	}

	if !r.primed && !r.done {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) && !r.done {
		pos := r.out * r.srcRate
		idx := pos / r.dstRate
		t := float32(pos%r.dstRate) / float32(r.dstRate)

		for r.base < idx {
			if err := r.advance(); err != nil {
				return written, err
			}
		}
		if idx >= r.pulled {
			r.done = true
			break
		}

		w := r.window
		for c := range r.channels {
			dst[written+c] = utils.CatmullRom(w[0][c], w[1][c], w[2][c], w[3][c], t)
		}
		written += r.channels
		r.out++
	}

	if r.done {
		return written, io.EOF
	}
	return written, nil
}
