// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/smartplay/audio"
)

// aiff16 builds a minimal 16-bit AIFF file at 8000 Hz.
func aiff16(channels int, samples []int16) []byte {
	frames := len(samples) / channels
	be := binary.BigEndian

	comm := make([]byte, 18)
	be.PutUint16(comm[0:], uint16(channels))
	be.PutUint32(comm[2:], uint32(frames))
	be.PutUint16(comm[6:], 16)
	// 8000 as an 80-bit extended float
	copy(comm[8:], []byte{0x40, 0x0B, 0xFA, 0, 0, 0, 0, 0, 0, 0})

	ssnd := make([]byte, 8+2*len(samples))
	for i, v := range samples {
		be.PutUint16(ssnd[8+2*i:], uint16(v))
	}

	var body bytes.Buffer
	body.WriteString("AIFF")
	for _, c := range []struct {
		id   string
		data []byte
	}{{"COMM", comm}, {"SSND", ssnd}} {
		body.WriteString(c.id)
		_ = binary.Write(&body, be, uint32(len(c.data)))
		body.Write(c.data)
	}

	var out bytes.Buffer
	out.WriteString("FORM")
	_ = binary.Write(&out, be, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func TestDecoder_Stereo16(t *testing.T) {
	t.Parallel()

	data := aiff16(2, []int16{0, 16384, -16384, -32768, 8192, -8192})

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 || src.Channels() != 2 {
		t.Fatalf("metadata = (%d Hz, %d ch), want (8000 Hz, 2 ch)", src.SampleRate(), src.Channels())
	}
	if got := audio.LengthOf(src); got != 3 {
		t.Errorf("LengthOf() = %d, want 3 frames from COMM", got)
	}

	buf, err := audio.ReadAll(src, 0)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := [][]float32{{0, -0.5, 0.25}, {0.5, -1, -0.25}}
	for c := range want {
		for f, w := range want[c] {
			if got := buf.Data[c][f]; got != w {
				t.Errorf("Data[%d][%d] = %v, want %v", c, f, got, w)
			}
		}
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader([]byte("This is not AIFF data")))

	if !errors.Is(err, ErrNotAiffFile) {
		t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader([]byte{}))

	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

// plainReader hides the Seek method of bytes.Reader.
type plainReader struct{ r *bytes.Reader }

func (p plainReader) Read(b []byte) (int, error) { return p.r.Read(b) }

func TestDecoder_NonSeekableInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(plainReader{bytes.NewReader([]byte("FORM...."))})

	if err == nil {
		t.Error("Decode() error = nil, want error for truncated AIFF header")
	}
}
