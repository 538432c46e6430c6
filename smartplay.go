// SPDX-License-Identifier: EPL-2.0

package smartplay

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ik5/smartplay/decoder"
	"github.com/ik5/smartplay/player"
	"github.com/ik5/smartplay/speaker"
)

// Player is a player.Player playing through the system speaker.
type Player struct {
	*player.Player

	out *speaker.Backend
}

// NewPlayer opens the speaker with cfg and builds a Player on it. Decoded
// sources are resampled to the speaker rate up front, so playback never
// resamples. Options in opts are applied after the defaults and may replace
// them.
//
// On builds without audio output the speaker error is returned wrapped in
// player.ErrIncompatibleEnvironment.
func NewPlayer(cfg speaker.Config, logger logrus.FieldLogger, opts ...player.Option) (*Player, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	out, err := speaker.New(cfg, logger)
	if err != nil {
		return nil, errors.Join(player.ErrIncompatibleEnvironment, err)
	}

	base := []player.Option{
		player.WithLogger(logger),
		player.WithDecoder(decoder.New(decoder.Options{TargetRate: cfg.SampleRate}, logger)),
	}

	p, err := player.New(out, player.Config{}, append(base, opts...)...)
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	return &Player{Player: p, out: out}, nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() error {
	return errors.Join(p.Player.Close(), p.out.Close())
}
