// SPDX-License-Identifier: EPL-2.0

// Package graphtest provides in-memory graph nodes, a manual clock and
// scriptable voices for tests.
package graphtest

import (
	"errors"
	"math"
	"sync"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/graph"
	"github.com/ik5/smartplay/utils"
)

var ErrInjected = errors.New("graphtest: injected failure")

// Param clamps writes to its range, like a hardware parameter would.
type Param struct {
	mu       sync.Mutex
	value    float64
	min, max float64
}

func NewParam(value, min, max float64) *Param {
	return &Param{value: value, min: min, max: max}
}

func (p *Param) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *Param) SetValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = utils.Clamp(v, p.min, p.max)
}

func (p *Param) Min() float64 { return p.min }
func (p *Param) Max() float64 { return p.max }

type Gain struct{ gain *Param }

func (g *Gain) Gain() graph.Param { return g.gain }

type Compressor struct {
	threshold, ratio, knee, attack, release *Param
}

func (c *Compressor) Threshold() graph.Param { return c.threshold }
func (c *Compressor) Ratio() graph.Param     { return c.ratio }
func (c *Compressor) Knee() graph.Param      { return c.knee }
func (c *Compressor) Attack() graph.Param    { return c.attack }
func (c *Compressor) Release() graph.Param   { return c.release }

type Filter struct {
	mu        sync.Mutex
	kind      graph.FilterKind
	frequency *Param
	gain      *Param
}

func (f *Filter) Kind() graph.FilterKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kind
}

func (f *Filter) SetKind(k graph.FilterKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kind = k
}

func (f *Filter) Frequency() graph.Param { return f.frequency }
func (f *Filter) Gain() graph.Param      { return f.gain }

// Sink terminates the chain.
type Sink struct{}

// Factory records every node and connection it makes. Set FailOn to one of
// "gain", "compressor", "filter" or "connect" to inject an error.
type Factory struct {
	mu     sync.Mutex
	FailOn string
	edges  [][2]graph.Node
	sink   *Sink
}

func NewFactory() *Factory {
	return &Factory{sink: &Sink{}}
}

func (f *Factory) fail(what string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailOn == what {
		return ErrInjected
	}
	return nil
}

func (f *Factory) NewGain() (graph.Gain, error) {
	if err := f.fail("gain"); err != nil {
		return nil, err
	}
	return &Gain{gain: NewParam(1, -math.MaxFloat32, math.MaxFloat32)}, nil
}

func (f *Factory) NewCompressor() (graph.Compressor, error) {
	if err := f.fail("compressor"); err != nil {
		return nil, err
	}
	return &Compressor{
		threshold: NewParam(-24, -100, 0),
		ratio:     NewParam(12, 1, 20),
		knee:      NewParam(30, 0, 40),
		attack:    NewParam(0.003, 0, 1),
		release:   NewParam(0.25, 0, 1),
	}, nil
}

func (f *Factory) NewFilter() (graph.Filter, error) {
	if err := f.fail("filter"); err != nil {
		return nil, err
	}
	return &Filter{
		kind:      graph.Peaking,
		frequency: NewParam(350, 0, 24000),
		gain:      NewParam(0, -40, 40),
	}, nil
}

func (f *Factory) Connect(from, to graph.Node) error {
	if err := f.fail("connect"); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges = append(f.edges, [2]graph.Node{from, to})
	return nil
}

func (f *Factory) Output() graph.Node { return f.sink }

// Edges returns the connections in the order they were made.
func (f *Factory) Edges() [][2]graph.Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]graph.Node(nil), f.edges...)
}

// Clock only moves when told to.
type Clock struct {
	mu  sync.Mutex
	now float64
}

func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *Clock) Advance(d float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

// Backend bundles a Factory, a Clock and voice bookkeeping.
type Backend struct {
	*Factory
	*Clock

	mu        sync.Mutex
	voices    []*Voice
	pending   sync.WaitGroup
	FailVoice bool
}

func NewBackend() *Backend {
	return &Backend{Factory: NewFactory(), Clock: &Clock{}}
}

func (b *Backend) NewVoice(buf *audio.Buffer, onEnded func()) (graph.Voice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailVoice {
		return nil, ErrInjected
	}

	v := &Voice{backend: b, buf: buf, onEnded: onEnded}
	b.voices = append(b.voices, v)
	return v, nil
}

// Voices returns every voice created so far.
func (b *Backend) Voices() []*Voice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Voice(nil), b.voices...)
}

// Last returns the newest voice, or nil.
func (b *Backend) Last() *Voice {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.voices) == 0 {
		return nil
	}
	return b.voices[len(b.voices)-1]
}

// Wait blocks until every end callback fired by Stop has returned.
func (b *Backend) Wait() {
	b.pending.Wait()
}

// Voice records how it was driven.
type Voice struct {
	backend *Backend
	buf     *audio.Buffer
	onEnded func()

	mu      sync.Mutex
	started bool
	stopped bool
	ended   bool
	offset  float64
}

func (v *Voice) Start(offset float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.started {
		return errors.New("graphtest: voice already started")
	}
	v.started = true
	v.offset = offset
	return nil
}

// Stop fires the end callback on its own goroutine, as real backends do.
func (v *Voice) Stop() {
	v.mu.Lock()
	if v.stopped || v.ended {
		v.mu.Unlock()
		return
	}
	v.stopped = true
	v.mu.Unlock()

	v.backend.pending.Add(1)
	go func() {
		defer v.backend.pending.Done()
		v.onEnded()
	}()
}

// End simulates the buffer running out. The callback runs on the caller's
// goroutine.
func (v *Voice) End() {
	v.mu.Lock()
	if v.stopped || v.ended {
		v.mu.Unlock()
		return
	}
	v.ended = true
	v.mu.Unlock()

	v.onEnded()
}

// Fire invokes the end callback without changing the voice, simulating a
// late notification.
func (v *Voice) Fire() { v.onEnded() }

func (v *Voice) Buffer() *audio.Buffer { return v.buf }

func (v *Voice) Offset() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

func (v *Voice) Started() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.started
}

func (v *Voice) Stopped() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stopped
}
