// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"bytes"
	"mime"
	"strings"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/formats/aiff"
	"github.com/ik5/smartplay/formats/mp3"
	"github.com/ik5/smartplay/formats/vorbis"
	"github.com/ik5/smartplay/formats/wav"
)

// Format keys used in the registry.
const (
	FormatWAV  = "wav"
	FormatMP3  = "mp3"
	FormatOgg  = "ogg"
	FormatAIFF = "aiff"
)

// NewRegistry returns a registry holding every built-in codec, reachable by
// format key or by any media subtype the format is commonly served under.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(FormatWAV, wav.Decoder{}, "wave", "x-wav", "vnd.wave", "x-pn-wav")
	reg.Register(FormatMP3, mp3.Decoder{}, "mpeg", "mpeg3", "x-mpeg", "x-mp3")
	reg.Register(FormatOgg, vorbis.Decoder{}, "vorbis", "x-ogg", "x-vorbis+ogg")
	reg.Register(FormatAIFF, aiff.Decoder{}, "aif", "x-aiff")

	return reg
}

var builtin = NewRegistry()

// FormatForMIME maps an audio media type to a built-in format key.
func FormatForMIME(mimeType string) (string, bool) {
	return formatIn(builtin, mimeType)
}

func formatIn(reg *audio.Registry, mimeType string) (string, bool) {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", false
	}

	kind, sub, ok := strings.Cut(mt, "/")
	if !ok || (kind != "audio" && kind != "application") {
		return "", false
	}

	return reg.Resolve(sub)
}

// Sniff identifies a container from its leading bytes.
func Sniff(data []byte) (string, bool) {
	switch {
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV, true
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("FORM")) &&
		(bytes.Equal(data[8:12], []byte("AIFF")) || bytes.Equal(data[8:12], []byte("AIFC"))):
		return FormatAIFF, true
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("OggS")):
		return FormatOgg, true
	case len(data) >= 3 && bytes.Equal(data[:3], []byte("ID3")):
		return FormatMP3, true
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return FormatMP3, true
	}

	return "", false
}
