// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"sync"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/graph"
)

type output struct{}

// Graph is a graph.NodeFactory whose nodes run in connection order.
type Graph struct {
	sampleRate int
	out        *output

	mu     sync.RWMutex
	chain  []Processor
	closed bool
}

func NewGraph(sampleRate int) *Graph {
	return &Graph{sampleRate: sampleRate, out: &output{}}
}

func (g *Graph) SampleRate() int { return g.sampleRate }

func (g *Graph) NewGain() (graph.Gain, error) { return NewGain(), nil }

func (g *Graph) NewCompressor() (graph.Compressor, error) {
	return NewCompressor(g.sampleRate), nil
}

func (g *Graph) NewFilter() (graph.Filter, error) { return NewFilter(g.sampleRate), nil }

func (g *Graph) Output() graph.Node { return g.out }

// Connect appends to to the chain. from must be the current tail, and the
// chain is complete once it reaches Output.
func (g *Graph) Connect(from, to graph.Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return fmt.Errorf("%w: chain already reaches the output", ErrNotLinear)
	}

	src, ok := from.(Processor)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignNode, from)
	}

	if len(g.chain) == 0 {
		g.chain = append(g.chain, src)
	} else if g.chain[len(g.chain)-1] != src {
		return fmt.Errorf("%w: %T is not the tail", ErrNotLinear, from)
	}

	if to == graph.Node(g.out) {
		g.closed = true
		return nil
	}

	dst, ok := to.(Processor)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignNode, to)
	}
	g.chain = append(g.chain, dst)

	return nil
}

// Process runs frames through every stage. Until the chain reaches the
// output, frames are passed through untouched.
func (g *Graph) Process(frames [][2]float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.closed {
		return
	}
	for _, p := range g.chain {
		p.Process(frames)
	}
}

// Reset clears filter and envelope history.
func (g *Graph) Reset() {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, p := range g.chain {
		p.Reset()
	}
}

const renderBlock = 512

// Render runs buf through the chain offline and returns the result at the
// same rate. Mono input is processed as dual mono and comes back mono;
// channels past the second are dropped. Processing history is reset before
// and after, so Render must not overlap live playback on the same Graph.
func (g *Graph) Render(buf *audio.Buffer) (*audio.Buffer, error) {
	if buf == nil || buf.Channels() == 0 {
		return nil, audio.ErrEmptySource
	}

	g.Reset()
	defer g.Reset()

	outCh := min(buf.Channels(), 2)
	total := buf.Frames()
	out := make([][]float32, outCh)
	for c := range out {
		out[c] = make([]float32, total)
	}

	left := buf.Data[0]
	right := left
	if buf.Channels() > 1 {
		right = buf.Data[1]
	}

	frames := make([][2]float64, renderBlock)
	for start := 0; start < total; start += renderBlock {
		n := min(renderBlock, total-start)
		block := frames[:n]
		for i := range block {
			block[i] = [2]float64{float64(left[start+i]), float64(right[start+i])}
		}

		g.Process(block)

		for i := range block {
			out[0][start+i] = float32(block[i][0])
			if outCh > 1 {
				out[1][start+i] = float32(block[i][1])
			}
		}
	}

	return audio.NewBuffer(buf.SampleRate, out)
}
