// SPDX-License-Identifier: EPL-2.0

// Package dsp is a small software implementation of the graph primitives:
// gain, a feed-forward dynamics compressor and RBJ biquad filters, chained
// linearly and run over stereo frames.
//
// Parameters are atomics and may be written from any goroutine. Processing
// state belongs to whichever single goroutine calls Process.
package dsp
