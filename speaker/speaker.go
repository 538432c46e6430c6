// SPDX-License-Identifier: EPL-2.0

// Package speaker plays processed audio on the system output through
// github.com/gopxl/beep/v2.
//
// A Backend is a complete player backend: it is the dsp.Graph the graph
// controller builds its chain in, the clock voices are timed against, and
// the voice factory. All voices are mixed into one always-running output
// stream, so the clock keeps counting while nothing plays.
package speaker

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/sirupsen/logrus"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/dsp"
	"github.com/ik5/smartplay/graph"
)

// ErrUnavailable means no audio output could be opened.
var ErrUnavailable = errors.New("audio output unavailable")

type Config struct {
	SampleRate int
	// BufferSize is the output latency.
	BufferSize time.Duration
}

var DefaultConfig = Config{
	SampleRate: 44100,
	BufferSize: 100 * time.Millisecond,
}

// Backend mixes voices through a dsp.Graph.
type Backend struct {
	*dsp.Graph

	rate   beep.SampleRate
	lock   sync.Locker
	logger logrus.FieldLogger

	// guarded by lock
	voices  []*voice
	frames  int64
	scratch [][2]float64
}

func newBackend(cfg Config, lock sync.Locker, logger logrus.FieldLogger) *Backend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Backend{
		Graph:  dsp.NewGraph(cfg.SampleRate),
		rate:   beep.SampleRate(cfg.SampleRate),
		lock:   lock,
		logger: logger,
	}
}

// Now is the playback clock in seconds, advanced by every frame handed to
// the output.
func (b *Backend) Now() float64 {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.rate.D(int(b.frames)).Seconds()
}

// Stream implements beep.Streamer. It never drains.
func (b *Backend) Stream(samples [][2]float64) (int, bool) {
	clear(samples)

	if cap(b.scratch) < len(samples) {
		b.scratch = make([][2]float64, len(samples))
	}
	tmp := b.scratch[:len(samples)]

	live := b.voices[:0]
	for _, v := range b.voices {
		if v.mix(samples, tmp) {
			live = append(live, v)
		}
	}
	clear(b.voices[len(live):])
	b.voices = live

	b.Graph.Process(samples)
	b.frames += int64(len(samples))

	return len(samples), true
}

func (b *Backend) Err() error { return nil }

// NewVoice prepares buf for playback. onEnded runs on its own goroutine once
// the voice ends, whether by Stop or by running out of samples.
func (b *Backend) NewVoice(buf *audio.Buffer, onEnded func()) (graph.Voice, error) {
	if buf == nil || buf.Frames() == 0 {
		return nil, audio.ErrEmptySource
	}

	return &voice{backend: b, buf: buf, onEnded: onEnded}, nil
}

type voice struct {
	backend *Backend
	buf     *audio.Buffer
	onEnded func()

	// guarded by backend.lock
	stream  beep.Streamer
	started bool
	ended   bool
}

func (v *voice) Start(offset float64) error {
	b := v.backend
	src := beep.SampleRate(v.buf.SampleRate)
	pos := min(max(src.N(time.Duration(offset*float64(time.Second))), 0), v.buf.Frames())

	var s beep.Streamer = &bufferStreamer{buf: v.buf, pos: pos}
	if src != b.rate {
		s = beep.Resample(4, src, b.rate, s)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if v.started {
		return nil
	}
	v.started = true
	v.stream = beep.Seq(s, beep.Callback(v.finishLocked))
	b.voices = append(b.voices, v)

	b.logger.WithFields(logrus.Fields{
		"function": "voice.Start",
		"offset":   offset,
		"frame":    pos,
	}).Debug("Voice started")

	return nil
}

func (v *voice) Stop() {
	b := v.backend

	b.lock.Lock()
	defer b.lock.Unlock()

	if i := slices.Index(b.voices, v); i >= 0 {
		b.voices = slices.Delete(b.voices, i, i+1)
	}
	v.finishLocked()
}

func (v *voice) finishLocked() {
	if v.ended {
		return
	}
	v.ended = true

	if v.onEnded != nil {
		// the output holds the lock while streaming; run the callback
		// elsewhere so it can call back into the backend
		go v.onEnded()
	}
}

// mix adds the voice into out and reports whether it is still playing.
func (v *voice) mix(out, tmp [][2]float64) bool {
	if v.ended {
		return false
	}

	n, ok := v.stream.Stream(tmp)
	for i := range n {
		out[i][0] += tmp[i][0]
		out[i][1] += tmp[i][1]
	}

	return ok && !v.ended
}

// bufferStreamer reads an audio.Buffer as stereo frames. Mono is duplicated
// to both sides.
type bufferStreamer struct {
	buf *audio.Buffer
	pos int
}

func (s *bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	frames := s.buf.Frames()
	if s.pos >= frames {
		return 0, false
	}

	left := s.buf.Data[0]
	right := left
	if s.buf.Channels() > 1 {
		right = s.buf.Data[1]
	}

	n := min(len(samples), frames-s.pos)
	for i := range n {
		samples[i] = [2]float64{float64(left[s.pos+i]), float64(right[s.pos+i])}
	}
	s.pos += n

	return n, true
}

func (s *bufferStreamer) Err() error { return nil }
