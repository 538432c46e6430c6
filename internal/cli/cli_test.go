// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/smartplay/formats/wav"
	"github.com/ik5/smartplay/player"
)

func writeTone(t *testing.T, name string, v int16) string {
	t.Helper()

	samples := make([]int16, 8000)
	for i := range samples {
		samples[i] = v
	}

	var buf bytes.Buffer
	require.NoError(t, wav.WriteWAV16(&buf, 8000, 1, samples))

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestDecodeKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []action
	}{
		{" ", []action{actToggle}},
		{"q", []action{actQuit}},
		{"\x03", []action{actQuit}},
		{"\x1b[C", []action{actForward}},
		{"\x1b[D\x1b[D", []action{actBack, actBack}},
		{"\x1b[A", nil},
		{"+-rm", []action{actVolumeUp, actVolumeDown, actRepeat, actRemaster}},
		{"sx", []action{actStop}},
		{"\x1b", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeKeys([]byte(tt.in)), "input %q", tt.in)
	}
}

func TestParseBands(t *testing.T) {
	t.Parallel()

	got, err := parseBands([]string{"1000=-3", " 63 = 2.5 "})
	require.NoError(t, err)
	assert.Equal(t, map[float64]float64{1000: -3, 63: 2.5}, got)

	for _, bad := range []string{"1000", "x=1", "1000=loud"} {
		_, err := parseBands([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestClock(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0:00", clock(0))
	assert.Equal(t, "0:00", clock(-4))
	assert.Equal(t, "1:05", clock(65.9))
	assert.Equal(t, "61:01", clock(3661))
}

func TestStatusLine(t *testing.T) {
	t.Parallel()

	line := statusLine(status{
		State:    player.StatePlay,
		Playing:  true,
		Position: 75,
		Duration: 200,
		Volume:   -6,
		Remaster: true,
	})

	for _, part := range []string{"▶", "play", "1:15 / 3:20", "vol -6 dB", "remaster", "repeat"} {
		assert.Contains(t, line, part)
	}

	assert.Contains(t, statusLine(status{State: player.StatePause}), "⏸")
	assert.Contains(t, statusLine(status{State: player.StateStop}), "■")
}

func TestRunAnalyze(t *testing.T) {
	t.Parallel()

	half := writeTone(t, "half.wav", 16384)
	silent := writeTone(t, "silent.wav", 0)

	var stdout, stderr bytes.Buffer
	code := RunAnalyze(context.Background(), &AnalyzeParams{Sources: []string{half, silent}}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "half.wav")
	assert.Contains(t, out, "silent.wav")
	assert.Contains(t, out, "audio/wav")
	assert.Contains(t, out, "1.50")
	assert.Contains(t, out, "-25 dB")
	assert.Contains(t, out, "10:1")
	assert.Contains(t, out, "20:1")
}

func TestRunAnalyze_Failure(t *testing.T) {
	t.Parallel()

	good := writeTone(t, "good.wav", 1000)
	missing := filepath.Join(t.TempDir(), "missing.wav")

	var stdout, stderr bytes.Buffer
	code := RunAnalyze(context.Background(), &AnalyzeParams{Sources: []string{missing, good}}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "missing.wav")
	assert.Contains(t, stdout.String(), "good.wav")
}

func TestRunRender(t *testing.T) {
	t.Parallel()

	in := writeTone(t, "in.wav", 16384)
	out := filepath.Join(t.TempDir(), "out.wav")

	var stdout, stderr bytes.Buffer
	code := RunRender(context.Background(), &RenderParams{
		Input:    in,
		Output:   out,
		Volume:   -3,
		Band:     []string{"1000=-2"},
		BitDepth: 16,
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout.String()), "knee=30dB)"), stdout.String())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, int64(44+16000), info.Size())
}

func TestRunRender_Errors(t *testing.T) {
	t.Parallel()

	in := writeTone(t, "in.wav", 16384)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := RunRender(context.Background(), &RenderParams{Input: in, Output: filepath.Join(dir, "a.wav"), Band: []string{"oops"}}, &stdout, &stderr)
	assert.Equal(t, 2, code)

	stderr.Reset()
	out := filepath.Join(dir, "b.wav")
	code = RunRender(context.Background(), &RenderParams{Input: in, Output: out, Band: []string{"440=1"}, BitDepth: 16}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "440")
	assert.NoFileExists(t, out)
}

func TestForward(t *testing.T) {
	t.Parallel()

	events := make(chan player.Event, 2)
	done := make(chan struct{})
	listen := forward(events, done)

	listen(player.Event{State: player.StatePlay})
	listen(player.Event{State: player.StatePause})

	// full: redraw events are dropped without blocking
	listen(player.Event{State: player.StateSeek})
	require.Len(t, events, 2)

	returned := make(chan struct{})
	go func() {
		listen(player.Event{State: player.StateEnd})
		close(returned)
	}()

	select {
	case <-returned:
		t.Fatal("end event was dropped instead of waiting for room")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, player.StatePlay, (<-events).State)
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("end event still blocked after room was made")
	}
	assert.Equal(t, player.StatePause, (<-events).State)
	assert.Equal(t, player.StateEnd, (<-events).State)

	// once the session is over, terminal events no longer block
	close(done)
	for range 3 {
		listen(player.Event{State: player.StateError})
	}
}
