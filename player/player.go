// SPDX-License-Identifier: EPL-2.0

package player

import (
	"context"
	"fmt"
	"maps"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/decoder"
	"github.com/ik5/smartplay/graph"
	"github.com/ik5/smartplay/loader"
	"github.com/ik5/smartplay/remaster"
	"github.com/ik5/smartplay/utils"
)

// session is the mutable state of one Player, guarded by Player.mu.
type session struct {
	state State

	sourceID string
	mimeType string
	byteSize int64
	buffer   *audio.Buffer

	// seconds on the backend clock
	startedAt float64
	pausedAt  float64

	repeat        bool
	autoplay      bool
	autoplayArmed bool

	generation uint64
	cancel     context.CancelFunc

	voice graph.Voice
}

// Player loads, remasters and plays one source at a time.
type Player struct {
	backend  Backend
	ctrl     *graph.Controller
	provider loader.Provider
	decoder  Decoder
	analyzer remaster.Analyzer
	logger   logrus.FieldLogger
	endTol   float64

	mu        sync.Mutex
	s         session
	closed    bool
	onState   Listener
	listeners map[State]Listener
	queue     []Event

	dispatchMu sync.Mutex
	loads      sync.WaitGroup
}

// New builds the processing chain on backend and returns a Player in the
// init state. If the chain cannot be built, the error event is delivered to
// the configured listeners and ErrIncompatibleEnvironment is returned.
func New(backend Backend, cfg Config, opts ...Option) (*Player, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Provider == nil {
		cfg.Provider = loader.New(loader.DefaultHTTPConfig, nil, cfg.Logger)
	}
	if cfg.Decoder == nil {
		cfg.Decoder = decoder.New(decoder.Options{}, cfg.Logger)
	}
	if cfg.EndTolerance <= 0 {
		cfg.EndTolerance = DefaultEndTolerance
	}

	p := &Player{
		backend:   backend,
		provider:  cfg.Provider,
		decoder:   cfg.Decoder,
		analyzer:  remaster.Analyzer{BypassSilence: cfg.BypassSilence},
		logger:    cfg.Logger,
		endTol:    cfg.EndTolerance,
		onState:   cfg.OnState,
		listeners: maps.Clone(cfg.Listeners),
	}
	if p.listeners == nil {
		p.listeners = make(map[State]Listener)
	}

	var err error
	if backend == nil {
		err = fmt.Errorf("%w: no backend", ErrIncompatibleEnvironment)
	} else if p.ctrl, err = graph.New(backend); err != nil {
		err = fmt.Errorf("%w: %w", ErrIncompatibleEnvironment, err)
	}
	if err != nil {
		p.logger.WithError(err).WithField("function", "player.New").Error("Cannot build audio graph")

		p.mu.Lock()
		p.setState(StateError, CodeIncompatibleEnvironment, err.Error())
		p.mu.Unlock()
		p.flush()

		return nil, err
	}

	p.ctrl.SetRemasterEnabled(cfg.Remaster == nil || *cfg.Remaster)

	p.mu.Lock()
	p.s.repeat = cfg.Repeat
	p.s.autoplay = cfg.Autoplay
	p.setState(StateInit, CodeNone, "")
	p.mu.Unlock()
	p.flush()

	if cfg.Src != "" {
		p.Load(loader.Parse(cfg.Src))
	}

	return p, nil
}

// setState records s, queues its event and follows any matching edge.
// p.mu must be held; call flush after releasing it.
func (p *Player) setState(s State, code ErrorCode, message string) {
	p.s.state = s
	p.queue = append(p.queue, Event{State: s, Code: code, Message: message})

	for _, e := range edges {
		if e.from == s && e.guard(p) {
			p.setState(e.via, CodeNone, "")
			e.action(p)
		}
	}
}

// flush delivers queued events in order. Listeners run without p.mu held.
// A listener that calls back into the Player only queues more events; the
// outer flush delivers them.
func (p *Player) flush() {
	for {
		if !p.dispatchMu.TryLock() {
			return
		}

		for {
			p.mu.Lock()
			if len(p.queue) == 0 {
				p.mu.Unlock()
				break
			}
			ev := p.queue[0]
			p.queue = p.queue[1:]
			onState, onThis := p.onState, p.listeners[ev.State]
			p.mu.Unlock()

			if onState != nil {
				onState(ev)
			}
			if onThis != nil {
				onThis(ev)
			}
		}

		p.dispatchMu.Unlock()

		// events queued between the empty check and Unlock would be stranded
		p.mu.Lock()
		pending := len(p.queue) > 0
		p.mu.Unlock()
		if !pending {
			return
		}
	}
}

// OnState replaces the listener for every transition.
func (p *Player) OnState(fn Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onState = fn
}

// On replaces the listener for transitions into s. A nil fn removes it.
func (p *Player) On(s State, fn Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if fn == nil {
		delete(p.listeners, s)
		return
	}
	p.listeners[s] = fn
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s.state
}

// Src is the name of the loaded source: a path, blob name or URL.
func (p *Player) Src() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s.sourceID
}

// SetSrc loads src, treating http and https strings as URLs.
func (p *Player) SetSrc(src string) {
	p.Load(loader.Parse(src))
}

// Type is the media type of the last opened source.
func (p *Player) Type() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s.mimeType
}

// Size is the byte size of the last opened source.
func (p *Player) Size() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s.byteSize
}

// Duration of the decoded buffer in seconds, zero without one.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s.buffer.Duration()
}

// CurrentTime is the playback position in seconds.
func (p *Player) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() float64 {
	if p.s.voice != nil {
		return p.backend.Now() - p.s.startedAt
	}
	return p.s.pausedAt
}

// SetCurrentTime seeks to seconds, clamped to [0, Duration].
func (p *Player) SetCurrentTime(seconds float64) {
	p.Seek(seconds)
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s.voice != nil
}

func (p *Player) Repeat() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s.repeat
}

func (p *Player) SetRepeat(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.repeat = on
}

func (p *Player) Autoplay() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s.autoplay
}

func (p *Player) SetAutoplay(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.autoplay = on
}

func (p *Player) Remaster() bool { return p.ctrl.RemasterEnabled() }

// SetRemaster switches between the computed profile and a neutral chain.
// The profile is kept, so switching back does not re-analyze.
func (p *Player) SetRemaster(on bool) { p.ctrl.SetRemasterEnabled(on) }

// Profile is the correction computed for the current buffer.
func (p *Player) Profile() remaster.Profile { return p.ctrl.Profile() }

// Volume is the master level in dB.
func (p *Player) Volume() float64 { return p.ctrl.MasterVolume() }

// SetVolume sets the master level in dB, clamped to [-100, 0].
func (p *Player) SetVolume(db float64) { p.ctrl.SetMasterVolume(db) }

// EQ reads the gain of the band at hz in dB.
func (p *Player) EQ(hz float64) (float64, error) { return p.ctrl.BandGain(hz) }

// SetEQ sets the band at hz, clamped to [-12, 3] dB.
func (p *Player) SetEQ(hz, db float64) error {
	_, err := p.ctrl.SetBandGainAt(hz, db)
	return err
}

// Bands lists the equalizer frequencies in Hz.
func (p *Player) Bands() []float64 { return p.ctrl.Bands() }

// Close stops playback, abandons any load in flight and waits for it to
// return. Events already queued are still delivered.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.s.generation++
	if p.s.cancel != nil {
		p.s.cancel()
		p.s.cancel = nil
	}
	p.stopLocked(true)
	p.mu.Unlock()

	p.loads.Wait()
	p.flush()

	return nil
}

func clampTime(seconds, duration float64) float64 {
	if math.IsNaN(seconds) {
		return 0
	}
	return utils.Clamp(seconds, 0, duration)
}
