// SPDX-License-Identifier: EPL-2.0

//go:build (linux && cgo) || windows || darwin

package speaker

import (
	"fmt"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/sirupsen/logrus"
)

// Available reports whether this build can open an audio output.
const Available = true

type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// New opens the system output and starts the mixer. Only one Backend
// should exist per process, the output device is global.
func New(cfg Config, logger logrus.FieldLogger) (*Backend, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig.SampleRate
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig.BufferSize
	}

	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(cfg.BufferSize)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	b := newBackend(cfg, speakerLock{}, logger)
	speaker.Play(b)

	b.logger.WithFields(logrus.Fields{
		"function":    "speaker.New",
		"sample_rate": cfg.SampleRate,
		"buffer":      cfg.BufferSize,
	}).Debug("Audio output opened")

	return b, nil
}

// Close silences the output.
func (b *Backend) Close() error {
	speaker.Clear()
	return nil
}
