// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"
	"math"
	"sync"

	"github.com/samber/lo"

	"github.com/ik5/smartplay/remaster"
	"github.com/ik5/smartplay/utils"
)

// BandFrequencies are the equalizer centre frequencies in Hz, low to high.
var BandFrequencies = []float64{31, 63, 125, 250, 500, 1000, 2000, 4000, 8000, 12000, 16000, 20000}

const (
	MinBandGain = -12.0
	MaxBandGain = 3.0

	MinVolume = -100.0
	MaxVolume = 0.0

	// Fixed compressor timing, in seconds.
	Attack  = 1.0
	Release = 0.25
)

// Controller drives the node chain.
type Controller struct {
	mu sync.Mutex

	normalizer Gain
	compressor Compressor
	bands      []Filter
	master     Gain

	profile remaster.Profile
	enabled bool
}

// New builds and connects the chain. Any factory failure is reported as
// ErrIncompatible.
func New(f NodeFactory) (*Controller, error) {
	c := &Controller{enabled: true}

	var err error
	if c.normalizer, err = f.NewGain(); err != nil {
		return nil, fmt.Errorf("%w: normalizer: %w", ErrIncompatible, err)
	}
	if c.compressor, err = f.NewCompressor(); err != nil {
		return nil, fmt.Errorf("%w: compressor: %w", ErrIncompatible, err)
	}

	c.bands = make([]Filter, len(BandFrequencies))
	for i, hz := range BandFrequencies {
		band, err := f.NewFilter()
		if err != nil {
			return nil, fmt.Errorf("%w: band %v Hz: %w", ErrIncompatible, hz, err)
		}

		switch i {
		case 0:
			band.SetKind(LowShelf)
		case len(BandFrequencies) - 1:
			band.SetKind(HighShelf)
		default:
			band.SetKind(Peaking)
		}
		band.Frequency().SetValue(hz)
		band.Gain().SetValue(0)
		c.bands[i] = band
	}

	if c.master, err = f.NewGain(); err != nil {
		return nil, fmt.Errorf("%w: master: %w", ErrIncompatible, err)
	}

	chain := make([]Node, 0, len(c.bands)+4)
	chain = append(chain, c.normalizer, c.compressor)
	for _, b := range c.bands {
		chain = append(chain, b)
	}
	chain = append(chain, c.master, f.Output())

	for i := 1; i < len(chain); i++ {
		if err := f.Connect(chain[i-1], chain[i]); err != nil {
			return nil, fmt.Errorf("%w: connect: %w", ErrIncompatible, err)
		}
	}

	c.compressor.Attack().SetValue(Attack)
	c.compressor.Release().SetValue(Release)
	c.master.Gain().SetValue(1)
	c.profile = remaster.NeutralProfile(c.boundsLocked())
	c.writeProfileLocked()

	return c, nil
}

// Bounds reports the limits of the compressor stage.
func (c *Controller) Bounds() remaster.Bounds {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.boundsLocked()
}

func (c *Controller) boundsLocked() remaster.Bounds {
	th, ra, kn := c.compressor.Threshold(), c.compressor.Ratio(), c.compressor.Knee()

	return remaster.Bounds{
		Threshold: remaster.Range{Min: th.Min(), Max: th.Max()},
		Ratio:     remaster.Range{Min: ra.Min(), Max: ra.Max()},
		Knee:      remaster.Range{Min: kn.Min(), Max: kn.Max()},
	}
}

// ApplyProfile stores p and writes it to the chain if remastering is on.
func (c *Controller) ApplyProfile(p remaster.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.profile = p
	c.writeProfileLocked()
}

// Profile returns the last applied profile, whether or not it is active.
func (c *Controller) Profile() remaster.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.profile
}

// SetRemasterEnabled switches between the stored profile and neutral values.
func (c *Controller) SetRemasterEnabled(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = on
	c.writeProfileLocked()
}

func (c *Controller) RemasterEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.enabled
}

func (c *Controller) writeProfileLocked() {
	p := c.profile
	if !c.enabled {
		p = remaster.NeutralProfile(c.boundsLocked())
	}

	c.normalizer.Gain().SetValue(p.NormalizerGain)
	c.compressor.Threshold().SetValue(p.Threshold)
	c.compressor.Ratio().SetValue(p.Ratio)
	c.compressor.Knee().SetValue(p.Knee)
}

// Bands returns the equalizer frequencies.
func (c *Controller) Bands() []float64 {
	return append([]float64(nil), BandFrequencies...)
}

// SetBandGain sets band i to dB, clamped to [MinBandGain, MaxBandGain], and
// returns the value written.
func (c *Controller) SetBandGain(i int, db float64) (float64, error) {
	if i < 0 || i >= len(BandFrequencies) {
		return 0, fmt.Errorf("%w: index %d", ErrUnknownBand, i)
	}
	if math.IsNaN(db) {
		db = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	db = utils.Clamp(db, MinBandGain, MaxBandGain)
	c.bands[i].Gain().SetValue(db)

	return db, nil
}

// SetBandGainAt is SetBandGain addressed by frequency.
func (c *Controller) SetBandGainAt(hz, db float64) (float64, error) {
	i, err := bandIndex(hz)
	if err != nil {
		return 0, err
	}
	return c.SetBandGain(i, db)
}

// BandGain returns the gain of the band at hz in dB.
func (c *Controller) BandGain(hz float64) (float64, error) {
	i, err := bandIndex(hz)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bands[i].Gain().Value(), nil
}

func bandIndex(hz float64) (int, error) {
	i := lo.IndexOf(BandFrequencies, hz)
	if i < 0 {
		return 0, fmt.Errorf("%w: %v Hz", ErrUnknownBand, hz)
	}
	return i, nil
}

// SetMasterVolume sets the output level in dB, clamped to [MinVolume,
// MaxVolume], and returns the value written.
func (c *Controller) SetMasterVolume(db float64) float64 {
	if math.IsNaN(db) {
		db = MaxVolume
	}
	db = utils.Clamp(db, MinVolume, MaxVolume)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.master.Gain().SetValue(utils.DBToGain(db))
	return db
}

// MasterVolume reads the output level back in dB.
func (c *Controller) MasterVolume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return utils.GainToDB(c.master.Gain().Value())
}
