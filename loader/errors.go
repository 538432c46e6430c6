// SPDX-License-Identifier: EPL-2.0

package loader

import "errors"

var (
	// ErrInvalidSource reports metadata that fails validation: a non-audio
	// media type, an empty payload or a payload over the size limit.
	ErrInvalidSource = errors.New("invalid audio source")
	// ErrSourceUnreachable reports a transport failure or an HTTP status >= 400.
	ErrSourceUnreachable = errors.New("audio source unreachable")
	ErrNotFound          = errors.New("audio file not found")
	ErrUnreadable        = errors.New("audio file unreadable")
	ErrUnknownRef        = errors.New("unknown source reference")
)
