// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams via github.com/jfreymuth/oggvorbis.
package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/samber/lo"

	"github.com/ik5/smartplay/audio"
)

// vorbisReader is the part of oggvorbis.Reader used here.
type vorbisReader interface {
	SampleRate() int
	Channels() int
	// Read returns the number of interleaved values decoded, always a
	// multiple of Channels.
	Read([]float32) (int, error)
	// Length in frames, 0 when the input is not seekable.
	Length() int64
}

type source struct {
	dec vorbisReader
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.dec.Channels() }
func (s *source) BufSize() int    { return 4096 }
func (s *source) Close() error    { return nil }
func (s *source) Length() int64   { return s.dec.Length() }

// ReadSamples decodes whole frames into dst. Vorbis synthesis can overshoot
// full scale slightly, so values are clamped to [-1, 1].
func (s *source) ReadSamples(dst []float32) (int, error) {
	usable := len(dst) - len(dst)%s.dec.Channels()
	if usable == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:usable])
	for i, v := range dst[:n] {
		dst[i] = lo.Clamp(v, -1, 1)
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}
	if dec.Channels() <= 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidStream)
	}

	return newSource(dec), nil
}

func newSource(dec vorbisReader) *source {
	return &source{dec: dec}
}
