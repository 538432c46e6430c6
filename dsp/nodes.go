// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"sync/atomic"

	"github.com/ik5/smartplay/graph"
	"github.com/ik5/smartplay/utils"
)

// Processor transforms stereo frames in place.
type Processor interface {
	Process(frames [][2]float64)
	Reset()
}

// Gain multiplies both channels by a linear factor.
type Gain struct {
	gain *Param
}

func NewGain() *Gain {
	return &Gain{gain: newParam(1, -math.MaxFloat32, math.MaxFloat32)}
}

func (g *Gain) Gain() graph.Param { return g.gain }
func (g *Gain) Reset()            {}

func (g *Gain) Process(frames [][2]float64) {
	k := g.gain.Value()
	if k == 1 {
		return
	}
	for i := range frames {
		frames[i][0] *= k
		frames[i][1] *= k
	}
}

// Compressor is a stereo-linked feed-forward compressor with a soft knee.
// Attack and release are time constants in seconds.
type Compressor struct {
	sampleRate float64

	threshold *Param
	ratio     *Param
	knee      *Param
	attack    *Param
	release   *Param

	// envelope is the smoothed gain reduction in dB, always <= 0.
	envelope float64
}

func NewCompressor(sampleRate int) *Compressor {
	return &Compressor{
		sampleRate: float64(sampleRate),
		threshold:  newParam(-24, -100, 0),
		ratio:      newParam(12, 1, 20),
		knee:       newParam(30, 0, 40),
		attack:     newParam(0.003, 0, 1),
		release:    newParam(0.25, 0, 1),
	}
}

func (c *Compressor) Threshold() graph.Param { return c.threshold }
func (c *Compressor) Ratio() graph.Param     { return c.ratio }
func (c *Compressor) Knee() graph.Param      { return c.knee }
func (c *Compressor) Attack() graph.Param    { return c.attack }
func (c *Compressor) Release() graph.Param   { return c.release }

func (c *Compressor) Reset() { c.envelope = 0 }

// StaticCurve returns the output level in dB for an input level in dB,
// ignoring attack and release.
func StaticCurve(x, threshold, ratio, knee float64) float64 {
	over := x - threshold
	switch {
	case 2*over < -knee:
		return x
	case knee > 0 && 2*math.Abs(over) <= knee:
		d := over + knee/2
		return x + (1/ratio-1)*d*d/(2*knee)
	default:
		return threshold + over/ratio
	}
}

func (c *Compressor) coeff(seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return math.Exp(-1 / (seconds * c.sampleRate))
}

func (c *Compressor) Process(frames [][2]float64) {
	threshold := c.threshold.Value()
	ratio := c.ratio.Value()
	knee := c.knee.Value()
	attack := c.coeff(c.attack.Value())
	release := c.coeff(c.release.Value())

	env := c.envelope
	for i := range frames {
		level := max(math.Abs(frames[i][0]), math.Abs(frames[i][1]))

		reduction := 0.0
		if level > 0 {
			x := 20 * math.Log10(level)
			reduction = StaticCurve(x, threshold, ratio, knee) - x
		}

		k := release
		if reduction < env {
			k = attack
		}
		env = k*env + (1-k)*reduction

		g := utils.DBToGain(env)
		frames[i][0] *= g
		frames[i][1] *= g
	}
	c.envelope = env
}

// Filter is an RBJ cookbook biquad. Peaking bands use Q = 1 and shelves a
// slope of 1.
type Filter struct {
	sampleRate float64

	kind      atomic.Int32
	frequency *Param
	gain      *Param

	// coefficients, normalized by a0, and the parameters they were built for
	b0, b1, b2, a1, a2 float64
	built              [3]float64
	ready              bool

	// direct form I history per channel
	x1, x2, y1, y2 [2]float64
}

func NewFilter(sampleRate int) *Filter {
	f := &Filter{
		sampleRate: float64(sampleRate),
		frequency:  newParam(350, 0, float64(sampleRate)/2),
		gain:       newParam(0, -40, 40),
	}
	f.kind.Store(int32(graph.Peaking))
	return f
}

func (f *Filter) Kind() graph.FilterKind     { return graph.FilterKind(f.kind.Load()) }
func (f *Filter) SetKind(k graph.FilterKind) { f.kind.Store(int32(k)) }
func (f *Filter) Frequency() graph.Param     { return f.frequency }
func (f *Filter) Gain() graph.Param          { return f.gain }

func (f *Filter) Reset() {
	f.x1, f.x2, f.y1, f.y2 = [2]float64{}, [2]float64{}, [2]float64{}, [2]float64{}
}

func (f *Filter) update() {
	kind := float64(f.kind.Load())
	freq := f.frequency.Value()
	gain := f.gain.Value()

	if f.ready && f.built == [3]float64{kind, freq, gain} {
		return
	}
	f.built = [3]float64{kind, freq, gain}
	f.ready = true

	a := math.Pow(10, gain/40)
	w0 := 2 * math.Pi * freq / f.sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)

	var b0, b1, b2, a0, a1, a2 float64
	switch graph.FilterKind(kind) {
	case graph.LowShelf:
		alpha := sinw / 2 * math.Sqrt2
		sq := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) - (a-1)*cosw + sq)
		b1 = 2 * a * ((a - 1) - (a+1)*cosw)
		b2 = a * ((a + 1) - (a-1)*cosw - sq)
		a0 = (a + 1) + (a-1)*cosw + sq
		a1 = -2 * ((a - 1) + (a+1)*cosw)
		a2 = (a + 1) + (a-1)*cosw - sq
	case graph.HighShelf:
		alpha := sinw / 2 * math.Sqrt2
		sq := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) + (a-1)*cosw + sq)
		b1 = -2 * a * ((a - 1) + (a+1)*cosw)
		b2 = a * ((a + 1) + (a-1)*cosw - sq)
		a0 = (a + 1) - (a-1)*cosw + sq
		a1 = 2 * ((a - 1) - (a+1)*cosw)
		a2 = (a + 1) - (a-1)*cosw - sq
	default:
		alpha := sinw / 2 // Q = 1
		b0 = 1 + alpha*a
		b1 = -2 * cosw
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosw
		a2 = 1 - alpha/a
	}

	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1, f.a2 = a1/a0, a2/a0
}

func (f *Filter) Process(frames [][2]float64) {
	f.update()
	if f.gain.Value() == 0 {
		// flat response; keep history moving so a later change does not click
		for i := range frames {
			for c := range 2 {
				f.x2[c], f.x1[c] = f.x1[c], frames[i][c]
				f.y2[c], f.y1[c] = f.y1[c], frames[i][c]
			}
		}
		return
	}

	for i := range frames {
		for c := range 2 {
			x := frames[i][c]
			y := f.b0*x + f.b1*f.x1[c] + f.b2*f.x2[c] - f.a1*f.y1[c] - f.a2*f.y2[c]
			f.x2[c], f.x1[c] = f.x1[c], x
			f.y2[c], f.y1[c] = f.y1[c], y
			frames[i][c] = y
		}
	}
}
