// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// fakeVorbis serves interleaved values in whole frames.
type fakeVorbis struct {
	rate     int
	channels int
	values   []float32
	length   int64
}

func (f *fakeVorbis) SampleRate() int { return f.rate }
func (f *fakeVorbis) Channels() int   { return f.channels }
func (f *fakeVorbis) Length() int64   { return f.length }

func (f *fakeVorbis) Read(p []float32) (int, error) {
	if len(f.values) == 0 {
		return 0, io.EOF
	}

	n := copy(p, f.values)
	n -= n % f.channels
	f.values = f.values[n:]

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not Ogg Vorbis data")))
	if !errors.Is(err, ErrInvalidStream) {
		t.Errorf("Decode() error = %v, want ErrInvalidStream", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeVorbis{
		rate:     48000,
		channels: 2,
		values:   []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3},
		length:   3,
	})

	if src.SampleRate() != 48000 || src.Channels() != 2 || src.Length() != 3 {
		t.Fatalf("metadata = (%d Hz, %d ch, %d frames), want (48000, 2, 3)",
			src.SampleRate(), src.Channels(), src.Length())
	}

	// 5 is not a multiple of 2 channels, only 4 values fit
	dst := make([]float32, 5)
	n, err := src.ReadSamples(dst)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = (%d, %v), want (4, nil)", n, err)
	}

	n, err = src.ReadSamples(dst)
	if err != nil || n != 2 {
		t.Fatalf("ReadSamples() = (%d, %v), want (2, nil)", n, err)
	}
	if dst[0] != 0.3 || dst[1] != -0.3 {
		t.Errorf("last frame = (%v, %v), want (0.3, -0.3)", dst[0], dst[1])
	}

	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestSource_ClampsOvershoot(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeVorbis{rate: 8000, channels: 1, values: []float32{1.02, -1.5, 0.25}})

	dst := make([]float32, 3)
	n, _ := src.ReadSamples(dst)
	want := []float32{1, -1, 0.25}
	if n != len(want) {
		t.Fatalf("ReadSamples() n = %d, want %d", n, len(want))
	}
	for i, w := range want {
		if dst[i] != w {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], w)
		}
	}
}

func TestSource_TinyBuffer(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeVorbis{rate: 8000, channels: 2, values: []float32{1, 1}})

	n, err := src.ReadSamples(make([]float32, 1))
	if n != 0 || err != nil {
		t.Errorf("ReadSamples() = (%d, %v), want (0, nil) for a buffer smaller than a frame", n, err)
	}
}
