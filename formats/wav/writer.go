// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/utils"
)

// canonicalHeader is the 44-byte RIFF/WAVE header of uncompressed PCM.
type canonicalHeader struct {
	RIFF          [4]byte
	RIFFSize      uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

// WriteWAV16 writes interleaved 16-bit PCM samples as a canonical WAV file.
// Unlike WriteBuffer it only needs an io.Writer.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 || sampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedChannelMap, channels, sampleRate)
	}

	dataSize := uint32(2 * len(samples))
	h := canonicalHeader{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		RIFFSize:      36 + dataSize,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   pcmFormat,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * 2),
		BlockAlign:    uint16(channels * 2),
		BitsPerSample: 16,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}
	if len(samples) == 0 {
		return nil
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}

	return nil
}

// WriteBuffer encodes a decoded Buffer with the go-audio encoder at the given
// bit depth. Samples outside [-1, 1] are clipped.
func WriteBuffer(ws io.WriteSeeker, buf *audio.Buffer, bitDepth int) error {
	channels := buf.Channels()
	if channels == 0 {
		return ErrUnsupportedChannelMap
	}

	enc := wav.NewEncoder(ws, buf.SampleRate, bitDepth, channels, pcmFormat)

	const framesPerChunk = 4096
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: buf.SampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, 0, framesPerChunk*channels),
	}

	frames := buf.Frames()
	for start := 0; start < frames; start += framesPerChunk {
		end := min(start+framesPerChunk, frames)
		ib.Data = ib.Data[:0]

		for f := start; f < end; f++ {
			for c := range channels {
				v := utils.FloatToPCM(float64(buf.Data[c][f]), bitDepth)
				if bitDepth == 8 {
					v += 128
				}
				ib.Data = append(ib.Data, v)
			}
		}

		if err := enc.Write(ib); err != nil {
			return fmt.Errorf("encoding wav: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}

	return nil
}
