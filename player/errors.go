// SPDX-License-Identifier: EPL-2.0

package player

import (
	"errors"

	"github.com/ik5/smartplay/decoder"
	"github.com/ik5/smartplay/loader"
)

// ErrIncompatibleEnvironment is returned by New when the backend cannot
// provide the processing chain.
var ErrIncompatibleEnvironment = errors.New("incompatible audio environment")

// codeFor maps a load or decode failure to its event code.
func codeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, loader.ErrInvalidSource), errors.Is(err, loader.ErrUnknownRef):
		return CodeInvalidSource
	case errors.Is(err, loader.ErrSourceUnreachable),
		errors.Is(err, loader.ErrNotFound),
		errors.Is(err, loader.ErrUnreadable):
		return CodeSourceUnreachable
	case errors.Is(err, decoder.ErrUnsupportedCodec):
		return CodeUnsupportedCodec
	case errors.Is(err, ErrIncompatibleEnvironment):
		return CodeIncompatibleEnvironment
	default:
		return CodeSourceUnreachable
	}
}
