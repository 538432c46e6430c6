// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding and encoding on top of github.com/go-audio/wav.
//
// The Decoder accepts integer PCM at 8, 16, 24 or 32 bits with any channel
// count and sample rate. 8-bit data is unsigned in WAV and is re-centered
// before normalization.
//
//	src, err := wav.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src, 4096)
//
// WriteWAV16 streams interleaved int16 samples behind a canonical header to
// any io.Writer. WriteBuffer encodes a whole audio.Buffer at a chosen bit
// depth and needs an io.WriteSeeker so the encoder can patch chunk sizes.
package wav
