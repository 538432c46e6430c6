// SPDX-License-Identifier: EPL-2.0

// Package graph owns the fixed processing chain of a player:
//
//	normalizer gain -> compressor -> 12 equalizer bands -> master gain -> sink
//
// The nodes themselves come from a NodeFactory, so the same Controller drives
// the software graph used for playback and the fakes used in tests.
package graph

// Param is a single automatable node parameter with platform limits.
type Param interface {
	Value() float64
	SetValue(v float64)
	Min() float64
	Max() float64
}

// Node is anything that can be wired into the chain.
type Node any

type Gain interface {
	Gain() Param
}

type Compressor interface {
	Threshold() Param
	Ratio() Param
	Knee() Param
	Attack() Param
	Release() Param
}

// FilterKind selects the biquad response of an equalizer band.
type FilterKind int

const (
	LowShelf FilterKind = iota
	Peaking
	HighShelf
)

func (k FilterKind) String() string {
	switch k {
	case LowShelf:
		return "lowshelf"
	case HighShelf:
		return "highshelf"
	default:
		return "peaking"
	}
}

type Filter interface {
	Kind() FilterKind
	SetKind(k FilterKind)
	Frequency() Param
	Gain() Param
}

// NodeFactory creates nodes and wires them in order. The master stage is
// connected to Output, the factory's sink.
type NodeFactory interface {
	NewGain() (Gain, error)
	NewCompressor() (Compressor, error)
	NewFilter() (Filter, error)
	Connect(from, to Node) error
	Output() Node
}

// Clock reports seconds on a monotonic timeline shared with voices.
type Clock interface {
	Now() float64
}

// Voice is one rendering of a buffer through the chain.
type Voice interface {
	// Start begins playback offset seconds into the buffer.
	Start(offset float64) error
	// Stop ends playback. The end callback still fires.
	Stop()
}
