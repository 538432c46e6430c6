// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrInvalidStream means no MPEG audio frame could be parsed.
var ErrInvalidStream = errors.New("invalid MP3 stream")
