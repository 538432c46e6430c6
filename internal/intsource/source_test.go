// SPDX-License-Identifier: EPL-2.0

package intsource

import (
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type mockReader struct {
	channels int
	samples  []int
	offset   int
}

func (m *mockReader) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: 8000, NumChannels: m.channels}
}

func (m *mockReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestSource_Normalizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		bitDepth  int
		unsigned8 bool
		in        []int
		want      []float32
	}{
		{"16-bit", 16, false, []int{0, 16384, -32768}, []float32{0, 0.5, -1}},
		{"24-bit", 24, false, []int{4194304, -8388608}, []float32{0.5, -1}},
		{"8-bit signed", 8, false, []int{64, -128}, []float32{0.5, -1}},
		{"8-bit unsigned", 8, true, []int{128, 192, 0}, []float32{0, 0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := New(&mockReader{channels: 1, samples: tt.in}, tt.bitDepth, tt.unsigned8)
			dst := make([]float32, 16)

			n, err := src.ReadSamples(dst)
			if err != io.EOF {
				t.Fatalf("ReadSamples() error = %v, want io.EOF on short read", err)
			}
			if n != len(tt.want) {
				t.Fatalf("ReadSamples() n = %d, want %d", n, len(tt.want))
			}
			for i, w := range tt.want {
				if dst[i] != w {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], w)
				}
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := New(&mockReader{channels: 2}, 16, false)

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() = %d, want 4096 before first read", src.BufSize())
	}
	if src.Length() != 0 {
		t.Errorf("Length() = %d, want 0 when unknown", src.Length())
	}
	if got := src.WithLength(1200).Length(); got != 1200 {
		t.Errorf("WithLength(1200).Length() = %d", got)
	}
}

func TestSource_EOF(t *testing.T) {
	t.Parallel()

	src := New(&mockReader{channels: 1}, 16, false)

	n, err := src.ReadSamples(make([]float32, 8))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestSupportedBitDepth(t *testing.T) {
	t.Parallel()

	for _, d := range []int{8, 16, 24, 32} {
		if !SupportedBitDepth(d) {
			t.Errorf("SupportedBitDepth(%d) = false", d)
		}
	}
	for _, d := range []int{0, 4, 12, 64} {
		if SupportedBitDepth(d) {
			t.Errorf("SupportedBitDepth(%d) = true", d)
		}
	}
}
