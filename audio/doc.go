// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM building blocks shared by the codecs and the
// player.
//
// # Source Interface
//
// Every codec in formats/ produces a streaming Source of interleaved float32
// samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Sources chain: a Resampler changes the sample rate with Catmull-Rom
// interpolation, and a MonoMixer averages channels down to one.
//
// # Buffers
//
// The player works on a whole decoded clip at once. ReadAll drains a Source
// into a Buffer, which holds one float32 slice per channel:
//
//	buf, err := audio.ReadAll(audio.NewResampler(src, 48000), 4096)
//	fmt.Println(buf.Channels(), buf.Frames(), buf.Duration())
//
// A Buffer is never modified after it is built. Loading a new clip produces a
// new Buffer.
//
// # Format Registry
//
// The Registry maps a format key to a Decoder. Aliases let the decoder
// package reach a format by media subtype:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{}, "x-wav", "wave")
//	format, _ := registry.Resolve("x-wav") // "wav"
//	decoder, _ := registry.Get(format)
//
// # Error Handling
//
// Sources return io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
