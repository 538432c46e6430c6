// SPDX-License-Identifier: EPL-2.0

package player

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ik5/smartplay/loader"
)

// Load replaces the current source. Local refs are opened and validated
// before Load returns; fetching, decoding and analysis run in the
// background. Failures surface as a single error event, never as a return
// value. A newer Load supersedes any load still in flight.
func (p *Player) Load(ref loader.Ref) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}

	p.s.generation++
	gen := p.s.generation
	if p.s.cancel != nil {
		p.s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.s.cancel = cancel

	kind := loader.KindOf(ref)
	p.setState(StateLoad, CodeNone, "")
	if kind == loader.Online {
		p.setState(StateOnline, CodeNone, "")
	} else {
		p.setState(StateOffline, CodeNone, "")
	}
	p.loads.Add(1)
	p.mu.Unlock()
	p.flush()

	logger := p.logger.WithFields(logrus.Fields{
		"function":   "Player.Load",
		"load_id":    uuid.NewString(),
		"generation": gen,
		"kind":       kind.String(),
	})
	if ref != nil {
		logger = logger.WithField("source", ref.Name())
	}
	logger.Debug("Loading source")

	if kind == loader.Offline {
		res, ok := p.open(ctx, gen, ref, logger)
		if !ok {
			p.loads.Done()
			return
		}
		go func() {
			defer p.loads.Done()
			p.decode(ctx, gen, res, logger)
		}()
		return
	}

	go func() {
		defer p.loads.Done()
		if res, ok := p.open(ctx, gen, ref, logger); ok {
			p.decode(ctx, gen, res, logger)
		}
	}()
}

// open fetches metadata and validates it.
func (p *Player) open(ctx context.Context, gen uint64, ref loader.Ref, logger logrus.FieldLogger) (loader.Resource, bool) {
	if ref == nil {
		p.fail(gen, CodeInvalidSource, "no source given", logger)
		return nil, false
	}

	res, err := p.provider.Open(ctx, ref)
	if err != nil {
		p.fail(gen, codeFor(err), err.Error(), logger)
		return nil, false
	}

	p.mu.Lock()
	if gen != p.s.generation {
		p.mu.Unlock()
		_ = res.Close()
		return nil, false
	}
	p.s.mimeType = res.MIMEType()
	p.s.byteSize = res.Size()
	p.mu.Unlock()

	if err := loader.Validate(res.MIMEType(), res.Size()); err != nil {
		_ = res.Close()
		p.fail(gen, CodeInvalidSource, err.Error(), logger)
		return nil, false
	}

	p.mu.Lock()
	if gen == p.s.generation {
		p.s.sourceID = ref.Name()
	}
	p.mu.Unlock()

	return res, true
}

// decode reads the payload, decodes it and runs the analysis.
func (p *Player) decode(ctx context.Context, gen uint64, res loader.Resource, logger logrus.FieldLogger) {
	data, err := res.ReadAll()
	_ = res.Close()
	if err != nil {
		p.fail(gen, codeFor(err), err.Error(), logger)
		return
	}

	if !p.advance(gen, StateDecode) {
		return
	}

	mimeType := res.MIMEType()
	buf, err := p.decoder.Decode(ctx, mimeType, data)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.fail(gen, CodeUnsupportedCodec, err.Error(), logger)
		return
	}
	if buf == nil || buf.Frames() == 0 || buf.SampleRate <= 0 {
		p.fail(gen, CodeUnsupportedCodec, "decoded stream is empty", logger)
		return
	}

	p.mu.Lock()
	if gen != p.s.generation {
		p.mu.Unlock()
		return
	}
	p.stopLocked(true)
	p.s.buffer = buf
	p.setState(StateRemaster, CodeNone, "")
	p.mu.Unlock()
	p.flush()

	profile, stats := p.analyzer.Analyze(buf, p.ctrl.Bounds())

	p.mu.Lock()
	if gen != p.s.generation {
		p.mu.Unlock()
		return
	}
	p.ctrl.ApplyProfile(profile)
	p.stopLocked(true)
	p.s.autoplayArmed = true
	p.setState(StateReady, CodeNone, "")
	p.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"duration": buf.Duration(),
		"peak":     stats.Peak,
		"average":  stats.Average,
		"profile":  profile.String(),
	}).Info("Source ready")

	p.flush()
}

// advance enters s if gen is still current.
func (p *Player) advance(gen uint64, s State) bool {
	p.mu.Lock()
	if gen != p.s.generation {
		p.mu.Unlock()
		return false
	}
	p.setState(s, CodeNone, "")
	p.mu.Unlock()
	p.flush()

	return true
}

// fail reports a load failure once, unless gen has been superseded.
func (p *Player) fail(gen uint64, code ErrorCode, message string, logger logrus.FieldLogger) {
	p.mu.Lock()
	if gen != p.s.generation {
		p.mu.Unlock()
		return
	}
	p.setState(StateError, code, message)
	p.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"code": code.String(),
	}).Warn(message)

	p.flush()
}
