// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrInvalidStream means the input has no readable Vorbis headers.
var ErrInvalidStream = errors.New("invalid Ogg Vorbis stream")
