// SPDX-License-Identifier: EPL-2.0

package player

import (
	"github.com/sirupsen/logrus"

	"github.com/ik5/smartplay/graph"
)

// Play starts or resumes playback. It does nothing without a buffer or
// while a voice is active.
func (p *Player) Play() {
	p.mu.Lock()
	p.playLocked(false)
	p.mu.Unlock()
	p.flush()
}

// Pause keeps the position and releases the voice.
func (p *Player) Pause() {
	p.mu.Lock()
	p.pauseLocked(false)
	p.mu.Unlock()
	p.flush()
}

// Stop releases the voice and rewinds to the start.
func (p *Player) Stop() {
	p.mu.Lock()
	p.stopLocked(false)
	p.mu.Unlock()
	p.flush()
}

// PlayPause toggles between Play and Pause.
func (p *Player) PlayPause() {
	p.mu.Lock()
	if p.s.voice != nil {
		p.pauseLocked(false)
	} else {
		p.playLocked(false)
	}
	p.mu.Unlock()
	p.flush()
}

// Seek moves to seconds, clamped to [0, Duration]. Active playback
// continues from there without pause or play events.
func (p *Player) Seek(seconds float64) {
	p.mu.Lock()
	offset := clampTime(seconds, p.s.buffer.Duration())

	p.setState(StateSeek, CodeNone, "")
	if p.s.voice != nil {
		p.pauseLocked(true)
		p.s.pausedAt = offset
		p.playLocked(true)
	} else {
		p.s.pausedAt = offset
	}
	p.mu.Unlock()
	p.flush()
}

func (p *Player) playLocked(silent bool) {
	if p.s.buffer == nil || p.s.voice != nil {
		return
	}

	logger := p.logger.WithFields(logrus.Fields{
		"function": "Player.play",
		"offset":   p.s.pausedAt,
	})

	var v graph.Voice
	v, err := p.backend.NewVoice(p.s.buffer, func() { p.voiceEnded(v) })
	if err != nil {
		logger.WithError(err).Warn("Cannot create voice")
		return
	}
	if err := v.Start(p.s.pausedAt); err != nil {
		logger.WithError(err).Warn("Cannot start voice")
		return
	}

	p.s.voice = v
	p.s.startedAt = p.backend.Now() - p.s.pausedAt
	p.s.pausedAt = 0

	if !silent {
		p.setState(StatePlay, CodeNone, "")
	}
}

func (p *Player) pauseLocked(silent bool) {
	if p.s.voice == nil {
		return
	}

	pos := clampTime(p.positionLocked(), p.s.buffer.Duration())
	p.releaseVoiceLocked()
	p.s.startedAt, p.s.pausedAt = 0, pos

	if !silent {
		p.setState(StatePause, CodeNone, "")
	}
}

func (p *Player) stopLocked(silent bool) {
	p.releaseVoiceLocked()
	p.s.startedAt, p.s.pausedAt = 0, 0

	if !silent {
		p.setState(StateStop, CodeNone, "")
	}
}

// releaseVoiceLocked forgets the voice before stopping it, so its end
// callback is recognised as stale.
func (p *Player) releaseVoiceLocked() {
	if v := p.s.voice; v != nil {
		p.s.voice = nil
		v.Stop()
	}
}

// voiceEnded runs when any voice ends. Only the active voice reaching the
// end of the buffer counts as a natural end.
func (p *Player) voiceEnded(v graph.Voice) {
	p.mu.Lock()
	if v == nil || p.s.voice != v {
		p.mu.Unlock()
		return
	}

	elapsed := p.backend.Now() - p.s.startedAt
	duration := p.s.buffer.Duration()
	if elapsed < duration-p.endTol {
		p.mu.Unlock()
		p.logger.WithFields(logrus.Fields{
			"function": "Player.voiceEnded",
			"elapsed":  elapsed,
			"duration": duration,
		}).Debug("Ignoring early end notification")
		return
	}

	p.stopLocked(false)
	p.setState(StateEnd, CodeNone, "")
	p.mu.Unlock()
	p.flush()
}
