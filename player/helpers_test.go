// SPDX-License-Identifier: EPL-2.0

package player

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/decoder"
	"github.com/ik5/smartplay/internal/graphtest"
	"github.com/ik5/smartplay/loader"
)

const testRate = 1000

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// constant returns a mono buffer of the given length holding v.
func constant(seconds float64, v float32) *audio.Buffer {
	data := make([]float32, int(seconds*testRate))
	for i := range data {
		data[i] = v
	}
	return &audio.Buffer{SampleRate: testRate, Data: [][]float32{data}}
}

// fakeDecoder maps payloads to buffers. A payload mapped to nil fails with
// ErrUnsupportedCodec.
type fakeDecoder struct {
	mu      sync.Mutex
	buffers map[string]*audio.Buffer
	gates   map[string]chan struct{}
	calls   atomic.Int32
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{
		buffers: make(map[string]*audio.Buffer),
		gates:   make(map[string]chan struct{}),
	}
}

func (d *fakeDecoder) set(payload string, buf *audio.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffers[payload] = buf
}

// hold makes decoding payload block until the returned func is called.
func (d *fakeDecoder) hold(payload string) func() {
	gate := make(chan struct{})
	d.mu.Lock()
	d.gates[payload] = gate
	d.mu.Unlock()
	return func() { close(gate) }
}

func (d *fakeDecoder) Decode(_ context.Context, _ string, data []byte) (*audio.Buffer, error) {
	d.calls.Add(1)

	d.mu.Lock()
	gate := d.gates[string(data)]
	buf := d.buffers[string(data)]
	d.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if buf == nil {
		return nil, fmt.Errorf("fake: %w", decoder.ErrUnsupportedCodec)
	}
	return buf, nil
}

// recorder captures every event in order.
type recorder struct {
	mu     sync.Mutex
	events []Event
	ch     chan Event
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Event, 1024)}
}

func (r *recorder) listen(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	r.ch <- ev
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]State, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.State
	}
	return out
}

func (r *recorder) count(s State) int {
	n := 0
	for _, st := range r.states() {
		if st == s {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	for len(r.ch) > 0 {
		<-r.ch
	}
}

// waitFor blocks until an event for s arrives.
func (r *recorder) waitFor(t *testing.T, s State) Event {
	t.Helper()

	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-r.ch:
			if ev.State == s {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s event, got %v", s, r.states())
			return Event{}
		}
	}
}

type fixture struct {
	backend *graphtest.Backend
	decoder *fakeDecoder
	events  *recorder
	player  *Player
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		backend: graphtest.NewBackend(),
		decoder: newFakeDecoder(),
		events:  newRecorder(),
	}

	base := []Option{
		WithDecoder(f.decoder),
		WithProvider(loader.New(loader.DefaultHTTPConfig, nil, quietLogger())),
		WithLogger(quietLogger()),
		WithOnState(f.events.listen),
	}

	p, err := New(f.backend, Config{}, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	f.player = p
	return f
}

// loadReady loads a blob holding payload and waits for ready.
func (f *fixture) loadReady(t *testing.T, payload string, buf *audio.Buffer) {
	t.Helper()

	f.decoder.set(payload, buf)
	f.player.Load(loader.Blob{Filename: payload + ".wav", MIMEType: "audio/wav", Data: []byte(payload)})
	f.events.waitFor(t, StateReady)
	// let the load goroutine finish delivering, so later events are
	// delivered synchronously by the calling test
	f.player.loads.Wait()
}
