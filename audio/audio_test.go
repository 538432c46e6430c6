// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/ik5/smartplay/internal/audiotest"
)

// stubDecoder returns a short silent clip tagged with its name.
type stubDecoder string

func (d stubDecoder) Decode(io.Reader) (Source, error) {
	return audiotest.Silence(8000, 1, 10), nil
}

type brokenDecoder struct{}

func (brokenDecoder) Decode(io.Reader) (Source, error) {
	return nil, errors.New("decode failed")
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("wav", stubDecoder("wav"), "x-wav", "Wave")
	reg.Register("mp3", stubDecoder("mp3"), "mpeg")

	tests := []struct {
		name       string
		wantFormat string
		wantOK     bool
	}{
		{"wav", "wav", true},
		{"WAV", "wav", true},
		{"x-wav", "wav", true},
		{"wave", "wav", true},
		{"mpeg", "mp3", true},
		{"mp3", "mp3", true},
		{"flac", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format, ok := reg.Resolve(tt.name)
			if ok != tt.wantOK || format != tt.wantFormat {
				t.Fatalf("Resolve(%q) = %q, %v; want %q, %v", tt.name, format, ok, tt.wantFormat, tt.wantOK)
			}
			if !ok {
				return
			}

			d, ok := reg.Get(format)
			if !ok || d != stubDecoder(format) {
				t.Errorf("Get(%q) = %v, %v; want %v", format, d, ok, stubDecoder(format))
			}
		})
	}
}

func TestRegistry_GetIgnoresAliases(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("ogg", stubDecoder("ogg"), "vorbis")

	if _, ok := reg.Get("vorbis"); ok {
		t.Error("Get() matched an alias, want format keys only")
	}
}

func TestRegistry_ReplaceKeepsAliases(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("aiff", stubDecoder("first"), "x-aiff")
	reg.Register("aiff", stubDecoder("second"))

	format, ok := reg.Resolve("x-aiff")
	if !ok || format != "aiff" {
		t.Fatalf("Resolve(x-aiff) = %q, %v after replace", format, ok)
	}
	if d, _ := reg.Get("aiff"); d != stubDecoder("second") {
		t.Errorf("Get(aiff) = %v, want the replacement", d)
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if got := reg.Formats(); len(got) != 0 {
		t.Errorf("empty Formats() = %v", got)
	}

	reg.Register("wav", stubDecoder("wav"), "x-wav")
	reg.Register("aiff", stubDecoder("aiff"))
	reg.Register("mp3", stubDecoder("mp3"), "mpeg")

	want := []string{"aiff", "mp3", "wav"}
	if got := reg.Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	formats := []string{"wav", "mp3", "ogg", "aiff"}

	var wg sync.WaitGroup
	for _, f := range formats {
		wg.Go(func() { reg.Register(f, stubDecoder(f), "x-"+f) })
		wg.Go(func() {
			_, _ = reg.Resolve("x-" + f)
			_ = reg.Formats()
		})
	}
	wg.Wait()

	for _, f := range formats {
		if got, ok := reg.Resolve("x-" + f); !ok || got != f {
			t.Errorf("Resolve(x-%s) = %q, %v", f, got, ok)
		}
	}
}

func TestRegistry_DecoderErrorPassesThrough(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("broken", brokenDecoder{})

	d, ok := reg.Get("broken")
	if !ok {
		t.Fatal("Get(broken) not found")
	}
	if _, err := d.Decode(nil); err == nil {
		t.Error("Decode() error = nil, want the decoder's error")
	}
}

func TestRegistry_DecodedSource(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("stub", stubDecoder("stub"))

	d, _ := reg.Get("stub")
	src, err := d.Decode(nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	buf, err := ReadAll(src, 0)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if buf.Frames() != 10 || buf.SampleRate != 8000 {
		t.Errorf("decoded %d frames at %d Hz, want 10 at 8000", buf.Frames(), buf.SampleRate)
	}
}
