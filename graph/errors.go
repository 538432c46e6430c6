// SPDX-License-Identifier: EPL-2.0

package graph

import "errors"

var (
	// ErrIncompatible means the backend could not build the chain.
	ErrIncompatible = errors.New("audio graph primitives unavailable")
	ErrUnknownBand  = errors.New("unknown equalizer band")
)
