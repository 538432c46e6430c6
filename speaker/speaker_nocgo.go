// SPDX-License-Identifier: EPL-2.0

//go:build !((linux && cgo) || windows || darwin)

package speaker

import (
	"github.com/sirupsen/logrus"
)

// Available reports whether this build can open an audio output.
// Audio requires cgo for the native sound libraries.
const Available = false

// New always fails without cgo.
func New(cfg Config, logger logrus.FieldLogger) (*Backend, error) {
	return nil, ErrUnavailable
}

func (b *Backend) Close() error { return nil }
