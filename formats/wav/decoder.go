// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/internal/intsource"
)

const pcmFormat = 1

type Decoder struct{}

// Decode parses the RIFF header and returns a streaming Source over the data
// chunk. go-audio needs random access, so a plain io.Reader is buffered in
// memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: format tag %d", ErrOnlyPCMSupported, dec.WavAudioFormat)
	}
	if !intsource.SupportedBitDepth(int(dec.BitDepth)) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}
	if dec.NumChans == 0 {
		return nil, ErrUnsupportedChannelMap
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	frameSize := int64(dec.NumChans) * int64(dec.BitDepth/8)

	// 8-bit WAV samples are unsigned bytes centered on 128.
	src := intsource.New(dec, int(dec.BitDepth), dec.BitDepth == 8)
	return src.WithLength(dec.PCMLen() / frameSize), nil
}
