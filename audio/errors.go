// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	// ErrEmptySource is returned by ReadAll when the stream has no frames.
	ErrEmptySource = errors.New("source produced no samples")
	// ErrChannelMismatch is returned when buffer channels differ in length.
	ErrChannelMismatch = errors.New("channel lengths differ")
)
