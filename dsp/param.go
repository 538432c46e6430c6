// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"sync/atomic"

	"github.com/ik5/smartplay/utils"
)

// Param is a lock-free float parameter clamped to [min, max].
type Param struct {
	bits     atomic.Uint64
	min, max float64
}

func newParam(value, min, max float64) *Param {
	p := &Param{min: min, max: max}
	p.SetValue(value)
	return p
}

func (p *Param) Value() float64 { return math.Float64frombits(p.bits.Load()) }
func (p *Param) Min() float64   { return p.min }
func (p *Param) Max() float64   { return p.max }

func (p *Param) SetValue(v float64) {
	if math.IsNaN(v) {
		return
	}
	p.bits.Store(math.Float64bits(utils.Clamp(v, p.min, p.max)))
}
