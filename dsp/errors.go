// SPDX-License-Identifier: EPL-2.0

package dsp

import "errors"

var (
	ErrForeignNode = errors.New("node was not created by this graph")
	ErrNotLinear   = errors.New("graph only supports a single linear chain")
)
