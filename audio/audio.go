// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Source is a streaming PCM reader produced by a codec.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (1 = mono, 2 = stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1] and
	// returns the number of values written, not frames. The stream is done
	// once it returns io.EOF.
	ReadSamples(dst []float32) (n int, err error)

	// BufSize is the read size the source prefers, in values.
	BufSize() int

	Close() error
}

// Lengther is implemented by sources that know their length in frames
// before reading. Length returns a value <= 0 when it is unknown.
type Lengther interface {
	Length() int64
}

// LengthOf returns the announced frame count of src, or 0 when unknown.
func LengthOf(src Source) int64 {
	if l, ok := src.(Lengther); ok {
		return max(l.Length(), 0)
	}
	return 0
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys ("wav", "mp3", "ogg", "aiff") to decoders.
// A format may also be reached by aliases, such as the media subtypes it is
// served under.
type Registry struct {
	mtx     sync.RWMutex
	codecs  map[string]Decoder
	aliases map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		codecs:  make(map[string]Decoder),
		aliases: make(map[string]string),
	}
}

// Register binds d to format, replacing any earlier decoder, and adds the
// given aliases. Keys and aliases are case-insensitive.
func (r *Registry) Register(format string, d Decoder, aliases ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	format = strings.ToLower(format)
	r.codecs[format] = d
	r.aliases[format] = format
	for _, a := range aliases {
		r.aliases[strings.ToLower(a)] = format
	}
}

// Get returns the decoder registered under the exact format key.
func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Resolve maps a format key or alias to its format key.
func (r *Registry) Resolve(name string) (string, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	f, ok := r.aliases[strings.ToLower(name)]
	return f, ok
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return slices.Sorted(maps.Keys(r.codecs))
}
