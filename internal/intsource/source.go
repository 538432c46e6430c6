// SPDX-License-Identifier: EPL-2.0

// Package intsource adapts the go-audio integer PCM decoders (wav, aiff) to
// the float32 audio.Source contract.
package intsource

import (
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/smartplay/utils"
)

// PCMReader is the subset of the go-audio decoders this package relies on.
// It is an interface so tests can feed samples without a real file.
type PCMReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source wraps a PCMReader and normalizes its integer samples.
type Source struct {
	dec        PCMReader
	sampleRate int
	channels   int
	bitDepth   int
	// unsigned8 marks 8-bit data stored as unsigned bytes (WAV).
	unsigned8 bool
	frames    int64
	intBuf    *goaudio.IntBuffer
}

// New builds a Source. bitDepth must be one of 8, 16, 24 or 32.
func New(dec PCMReader, bitDepth int, unsigned8 bool) *Source {
	format := dec.Format()

	return &Source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
		unsigned8:  unsigned8,
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

// WithLength records the frame count announced by the container header.
func (s *Source) WithLength(frames int64) *Source {
	s.frames = frames
	return s
}

// Length implements audio.Lengther.
func (s *Source) Length() int64 { return s.frames }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i := range n {
		v := s.intBuf.Data[i]
		if s.unsigned8 {
			v -= 128
		}
		dst[i] = utils.PCMToFloat(v, s.bitDepth)
	}

	// A short read with no error means the data chunk is exhausted.
	if n < len(dst) && err == nil {
		return n, io.EOF
	}

	return n, err
}

// SupportedBitDepth reports whether depth can be normalized by Source.
func SupportedBitDepth(depth int) bool {
	switch depth {
	case 8, 16, 24, 32:
		return true
	default:
		return false
	}
}
