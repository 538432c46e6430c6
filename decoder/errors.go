// SPDX-License-Identifier: EPL-2.0

package decoder

import "errors"

// ErrUnsupportedCodec covers every decode failure: an unknown container, a
// codec error or a stream with no samples.
var ErrUnsupportedCodec = errors.New("unsupported codec")
