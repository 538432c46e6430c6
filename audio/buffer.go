// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Buffer is a fully decoded, de-interleaved PCM clip.
//
// A Buffer is treated as immutable once built: consumers read Data but never
// write to it, and a new decode produces a new Buffer.
type Buffer struct {
	SampleRate int
	// Data holds one slice per channel, all of equal length.
	Data [][]float32
}

// NewBuffer validates channel data and wraps it in a Buffer.
func NewBuffer(sampleRate int, data [][]float32) (*Buffer, error) {
	for i := 1; i < len(data); i++ {
		if len(data[i]) != len(data[0]) {
			return nil, fmt.Errorf("channel %d: %w", i, ErrChannelMismatch)
		}
	}

	return &Buffer{SampleRate: sampleRate, Data: data}, nil
}

func (b *Buffer) Channels() int {
	if b == nil {
		return 0
	}
	return len(b.Data)
}

// Frames is the number of samples per channel.
func (b *Buffer) Frames() int {
	if b == nil || len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration of the clip in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Channel returns the samples of channel c.
func (b *Buffer) Channel(c int) []float32 { return b.Data[c] }

// maxEmptyReads bounds how many (0, nil) reads ReadAll tolerates before it
// treats the source as finished.
const maxEmptyReads = 64

// maxPrealloc caps the frames reserved from a header length, so a
// corrupt header cannot force a huge allocation.
const maxPrealloc = 1 << 26

// ReadAll drains src into a Buffer, de-interleaving as it goes.
//
// bufSize is the number of interleaved values read per call; zero or a value
// that is not a multiple of the channel count falls back to src.BufSize().
func ReadAll(src Source, bufSize int) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("channels=%d: %w", channels, ErrInvalidDstSize)
	}

	if bufSize <= 0 {
		bufSize = src.BufSize()
	}
	if bufSize < channels {
		bufSize = 4096
	}
	bufSize -= bufSize % channels

	data := make([][]float32, channels)
	if n := LengthOf(src); n > 0 && n <= maxPrealloc {
		for c := range data {
			data[c] = make([]float32, 0, n)
		}
	}

	buf := make([]float32, bufSize)
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			frames := n / channels
			for c := range channels {
				ch := data[c]
				for f := range frames {
					ch = append(ch, buf[f*channels+c])
				}
				data[c] = ch
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				break
			}
			continue
		}
		empty = 0
	}

	if len(data[0]) == 0 {
		return nil, ErrEmptySource
	}

	return &Buffer{SampleRate: src.SampleRate(), Data: data}, nil
}
