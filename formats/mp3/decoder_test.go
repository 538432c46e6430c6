// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// fakePCM serves little-endian samples, at most step bytes per Read when
// step is set.
type fakePCM struct {
	rate   int
	data   []byte
	step   int
	length int64
}

func newFakePCM(rate int, samples ...int16) *fakePCM {
	data := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
	}
	return &fakePCM{rate: rate, data: data, length: int64(len(data))}
}

func (f *fakePCM) SampleRate() int { return f.rate }
func (f *fakePCM) Length() int64   { return f.length }

func (f *fakePCM) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, io.EOF
	}
	if f.step > 0 && len(p) > f.step {
		p = p[:f.step]
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func readAll(t *testing.T, src *source, chunk int) []float32 {
	t.Helper()

	var out []float32
	dst := make([]float32, chunk)
	for range 1000 {
		n, err := src.ReadSamples(dst)
		out = append(out, dst[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("ReadSamples() never reached EOF")
	return nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not MP3 data")))
	if !errors.Is(err, ErrInvalidStream) {
		t.Errorf("Decode() error = %v, want ErrInvalidStream", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := newSource(newFakePCM(44100, 0, 16384, -16384, -32768))

	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Fatalf("metadata = (%d Hz, %d ch), want (44100 Hz, 2 ch)", src.SampleRate(), src.Channels())
	}

	got := readAll(t, src, 8)
	want := []float32{0, 0.5, -0.5, -1}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("sample %d = %v, want %v", i, got[i], w)
		}
	}
}

func TestSource_SplitFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		step  int
		chunk int
	}{
		{"three bytes per read", 3, 8},
		{"one byte per read", 1, 4},
		{"odd dst", 0, 5},
		{"dst smaller than a frame", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pcm := newFakePCM(8000, 100, -100, 200, -200, 300, -300)
			pcm.step = tt.step
			src := newSource(pcm)

			if tt.chunk < channels {
				if n, err := src.ReadSamples(make([]float32, tt.chunk)); n != 0 || err != nil {
					t.Errorf("ReadSamples() = (%d, %v), want (0, nil)", n, err)
				}
				return
			}

			got := readAll(t, src, tt.chunk)
			want := []float32{100, -100, 200, -200, 300, -300}
			if len(got) != len(want) {
				t.Fatalf("read %d samples, want %d", len(got), len(want))
			}
			for i, w := range want {
				if got[i] != w/32768 {
					t.Errorf("sample %d = %v, want %v", i, got[i], w/32768)
				}
			}
		})
	}
}

func TestSource_Length(t *testing.T) {
	t.Parallel()

	pcm := newFakePCM(22050, make([]int16, 200)...)
	if got := newSource(pcm).Length(); got != 100 {
		t.Errorf("Length() = %d, want 100 frames", got)
	}

	pcm.length = -1
	if got := newSource(pcm).Length(); got != 0 {
		t.Errorf("Length() = %d with unknown size, want 0", got)
	}
}

func TestSource_BufSize(t *testing.T) {
	t.Parallel()

	if got := newSource(newFakePCM(22050)).BufSize(); got != 4096 {
		t.Errorf("BufSize() = %d, want 4096", got)
	}
}
