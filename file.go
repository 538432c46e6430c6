// SPDX-License-Identifier: EPL-2.0

package smartplay

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ik5/smartplay/audio"
	"github.com/ik5/smartplay/decoder"
	"github.com/ik5/smartplay/dsp"
	"github.com/ik5/smartplay/formats/wav"
	"github.com/ik5/smartplay/graph"
	"github.com/ik5/smartplay/loader"
	"github.com/ik5/smartplay/remaster"
)

// Options configures the one-shot helpers. The zero value uses
// loader.DefaultHTTPConfig, native rate and channels, remaster.DefaultBounds
// and the standard logger.
type Options struct {
	HTTP          loader.HTTPConfig
	Decoder       decoder.Options
	Bounds        remaster.Bounds
	BypassSilence bool
	Logger        logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.HTTP == (loader.HTTPConfig{}) {
		o.HTTP = loader.DefaultHTTPConfig
	}
	if o.Bounds == (remaster.Bounds{}) {
		o.Bounds = remaster.DefaultBounds
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Track is a validated and decoded source.
type Track struct {
	Source   string
	MIMEType string
	Size     int64
	Buffer   *audio.Buffer
}

// Open loads src (a path or an http(s) URL), validates it and decodes it.
// Errors wrap the loader and decoder sentinels.
func Open(ctx context.Context, src string, opts Options) (*Track, error) {
	opts = opts.withDefaults()
	ref := loader.Parse(src)

	res, err := loader.New(opts.HTTP, nil, opts.Logger).Open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", ref.Name(), err)
	}
	defer res.Close()

	if err := loader.Validate(res.MIMEType(), res.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", ref.Name(), err)
	}

	data, err := res.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref.Name(), err)
	}

	buf, err := decoder.New(opts.Decoder, opts.Logger).Decode(ctx, res.MIMEType(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ref.Name(), err)
	}

	return &Track{
		Source:   ref.Name(),
		MIMEType: res.MIMEType(),
		Size:     int64(len(data)),
		Buffer:   buf,
	}, nil
}

// Report is what AnalyzeFile and RenderFile found.
type Report struct {
	Source     string
	MIMEType   string
	Size       int64
	SampleRate int
	Channels   int
	Frames     int
	Duration   float64
	Stats      remaster.Stats
	Profile    remaster.Profile
}

func newReport(t *Track, profile remaster.Profile, stats remaster.Stats) *Report {
	return &Report{
		Source:     t.Source,
		MIMEType:   t.MIMEType,
		Size:       t.Size,
		SampleRate: t.Buffer.SampleRate,
		Channels:   t.Buffer.Channels(),
		Frames:     t.Buffer.Frames(),
		Duration:   t.Buffer.Duration(),
		Stats:      stats,
		Profile:    profile,
	}
}

// AnalyzeFile decodes src and derives its remaster profile.
func AnalyzeFile(ctx context.Context, src string, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	track, err := Open(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	analyzer := remaster.Analyzer{BypassSilence: opts.BypassSilence}
	profile, stats := analyzer.Analyze(track.Buffer, opts.Bounds)

	opts.Logger.WithFields(logrus.Fields{
		"function": "AnalyzeFile",
		"source":   track.Source,
		"peak":     stats.Peak,
		"average":  stats.Average,
	}).Debug("Analyzed source")

	return newReport(track, profile, stats), nil
}

// RenderOptions adds the chain settings used by RenderFile.
type RenderOptions struct {
	Options

	// NoRemaster renders with a neutral normalizer and compressor.
	NoRemaster bool
	// Volume is the master level in dB, clamped to [-100, 0].
	Volume float64
	// EQ maps band frequencies in Hz to gains in dB.
	EQ map[float64]float64
	// BitDepth of the written file, 16 when zero.
	BitDepth int
}

// RenderFile decodes src, runs it through the remastering chain and writes
// the result to w as PCM WAV. Sources with more than two channels should be
// decoded with Decoder.Mono set, since the chain is stereo.
func RenderFile(ctx context.Context, src string, w io.WriteSeeker, opts RenderOptions) (*Report, error) {
	opts.Options = opts.Options.withDefaults()
	if opts.BitDepth == 0 {
		opts.BitDepth = 16
	}

	track, err := Open(ctx, src, opts.Options)
	if err != nil {
		return nil, err
	}

	g := dsp.NewGraph(track.Buffer.SampleRate)
	ctrl, err := graph.New(g)
	if err != nil {
		return nil, err
	}

	analyzer := remaster.Analyzer{BypassSilence: opts.BypassSilence}
	profile, stats := analyzer.Analyze(track.Buffer, ctrl.Bounds())
	ctrl.ApplyProfile(profile)
	ctrl.SetRemasterEnabled(!opts.NoRemaster)
	ctrl.SetMasterVolume(opts.Volume)

	for hz, db := range opts.EQ {
		if _, err := ctrl.SetBandGainAt(hz, db); err != nil {
			return nil, err
		}
	}

	out, err := g.Render(track.Buffer)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", track.Source, err)
	}

	if err := wav.WriteBuffer(w, out, opts.BitDepth); err != nil {
		return nil, err
	}

	opts.Logger.WithFields(logrus.Fields{
		"function": "RenderFile",
		"source":   track.Source,
		"profile":  profile.String(),
		"volume":   ctrl.MasterVolume(),
	}).Info("Rendered source")

	return newReport(track, profile, stats), nil
}
