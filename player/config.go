// SPDX-License-Identifier: EPL-2.0

package player

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/graph"
	"github.com/ik5/smartplay/loader"
)

// Backend supplies the processing nodes, the clock and voices.
type Backend interface {
	graph.NodeFactory
	graph.Clock
	NewVoice(buf *audio.Buffer, onEnded func()) (graph.Voice, error)
}

// Decoder turns a validated payload into PCM. *decoder.Adapter implements it.
type Decoder interface {
	Decode(ctx context.Context, mimeType string, data []byte) (*audio.Buffer, error)
}

// DefaultEndTolerance is how early, in seconds, a voice may report its end
// and still count as having reached the end of the buffer.
const DefaultEndTolerance = 0.05

type Config struct {
	// Src is loaded right after construction when set.
	Src      string
	Autoplay bool
	Repeat   bool
	// Remaster defaults to on.
	Remaster *bool
	// BypassSilence skips correction for silent buffers.
	BypassSilence bool

	OnState   Listener
	Listeners map[State]Listener

	Provider     loader.Provider
	Decoder      Decoder
	Logger       logrus.FieldLogger
	EndTolerance float64
}

type Option func(*Config)

func WithSrc(src string) Option { return func(c *Config) { c.Src = src } }
func WithAutoplay(on bool) Option { return func(c *Config) { c.Autoplay = on } }
func WithRepeat(on bool) Option { return func(c *Config) { c.Repeat = on } }
func WithRemaster(on bool) Option { return func(c *Config) { c.Remaster = &on } }
func WithBypassSilence(on bool) Option { return func(c *Config) { c.BypassSilence = on } }
func WithOnState(fn Listener) Option { return func(c *Config) { c.OnState = fn } }
func WithProvider(p loader.Provider) Option { return func(c *Config) { c.Provider = p } }
func WithDecoder(d Decoder) Option { return func(c *Config) { c.Decoder = d } }
func WithLogger(l logrus.FieldLogger) Option { return func(c *Config) { c.Logger = l } }
func WithEndTolerance(seconds float64) Option {
	return func(c *Config) { c.EndTolerance = seconds }
}

// WithListener registers fn for a single state.
func WithListener(s State, fn Listener) Option {
	return func(c *Config) {
		if c.Listeners == nil {
			c.Listeners = make(map[State]Listener)
		}
		c.Listeners[s] = fn
	}
}
