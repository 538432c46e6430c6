// SPDX-License-Identifier: EPL-2.0

// Package audiotest generates PCM streams for tests. It does not import the
// audio package, so audio's own tests can use it.
package audiotest

import (
	"io"
	"math"
)

// Func returns the sample for frame on channel.
type Func func(frame, channel int) float32

// Source is a finite generated stream of interleaved samples.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	gen      Func

	chunk  int
	failAt int
	err    error
	closed bool
}

// New returns a Source of frames frames produced by gen.
func New(rate, channels, frames int, gen Func) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, gen: gen, failAt: -1}
}

func Silence(rate, channels, frames int) *Source {
	return Constant(rate, channels, frames, 0)
}

func Constant(rate, channels, frames int, v float32) *Source {
	return New(rate, channels, frames, func(int, int) float32 { return v })
}

// Sine is a full scale sine at hz on every channel.
func Sine(rate, channels, frames int, hz float64) *Source {
	return New(rate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * hz * float64(f) / float64(rate)))
	})
}

// Channels holds values[c] constant on channel c.
func Channels(rate, frames int, values ...float32) *Source {
	return New(rate, len(values), frames, func(_, c int) float32 { return values[c] })
}

// Ramp counts frames: frame f holds f/scale on every channel.
func Ramp(rate, channels, frames int, scale float32) *Source {
	return New(rate, channels, frames, func(f, _ int) float32 { return float32(f) / scale })
}

// Chunked caps every read at n frames.
func (s *Source) Chunked(n int) *Source {
	s.chunk = n
	return s
}

// FailAt makes the read that reaches frame return err.
func (s *Source) FailAt(frame int, err error) *Source {
	s.failAt = frame
	s.err = err
	return s
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool { return s.closed }

// Rewind starts the stream over.
func (s *Source) Rewind() { s.pos = 0 }

// ReadSamples writes whole frames only. The read that delivers the last
// frame also returns io.EOF.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	if s.chunk > 0 {
		n = min(n, s.chunk)
	}
	if s.failAt >= 0 && s.pos+n > s.failAt {
		n = max(0, s.failAt-s.pos)
		s.failAt = -1
		s.write(dst, n)
		return n * s.channels, s.err
	}

	s.write(dst, n)
	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}

func (s *Source) write(dst []float32, n int) {
	for i := range n {
		for c := range s.channels {
			dst[i*s.channels+c] = s.gen(s.pos+i, c)
		}
	}
	s.pos += n
}
