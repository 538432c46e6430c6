// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams via github.com/hajimehoshi/go-mp3.
package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/smartplay/audio"
)

const (
	// go-mp3 always produces 16-bit little-endian stereo.
	channels  = 2
	frameSize = channels * 2
)

// pcmReader is the part of gomp3.Decoder used here.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
	// Length is the decoded size in bytes, -1 when unknown.
	Length() int64
}

type source struct {
	dec     pcmReader
	raw     []byte
	pending int // bytes of a split frame kept at the start of raw
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) BufSize() int    { return 4096 }
func (s *source) Close() error    { return nil }

// Length implements audio.Lengther.
func (s *source) Length() int64 {
	if n := s.dec.Length(); n > 0 {
		return n / frameSize
	}
	return 0
}

// ReadSamples decodes whole stereo frames into dst. A frame split across two
// reads of the decoder is held back until it is complete.
func (s *source) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / channels
	if frames == 0 {
		return 0, nil
	}

	want := frames * frameSize
	if cap(s.raw) < want {
		raw := make([]byte, want)
		copy(raw, s.raw[:s.pending])
		s.raw = raw
	}
	s.raw = s.raw[:want]

	n, err := s.dec.Read(s.raw[s.pending:])
	n += s.pending

	whole := n - n%frameSize
	for i := 0; i < whole; i += 2 {
		dst[i/2] = float32(int16(binary.LittleEndian.Uint16(s.raw[i:]))) / 32768
	}
	s.pending = copy(s.raw, s.raw[whole:n])

	return whole / 2, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	return newSource(dec), nil
}

func newSource(dec pcmReader) *source {
	return &source{dec: dec}
}
