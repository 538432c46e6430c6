// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer averages the channels of every interleaved frame into a single
// sample. A mono source passes through untouched.
type MonoMixer struct {
	src   Source
	in    []float32
	scale float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src:   src,
		scale: 1 / float32(max(1, src.Channels())),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }
func (m *MonoMixer) Length() int64   { return LengthOf(m.src) }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("closing mixer source: %w", err)
	}
	return nil
}

// ReadSamples writes up to len(dst) mono samples. The source is asked for
// exactly as many frames, so nothing is buffered between calls.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	channels := m.src.Channels()
	if channels <= 1 || len(dst) == 0 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.in) < need {
		m.in = make([]float32, need)
	}
	in := m.in[:need]

	n, err := m.src.ReadSamples(in)
	frames := n / channels
	for f := range frames {
		var sum float32
		for _, v := range in[f*channels : (f+1)*channels] {
			sum += v
		}
		dst[f] = sum * m.scale
	}

	return frames, err
}
