// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ik5/smartplay/audio"
)

// Options shape the decoded buffer.
type Options struct {
	// TargetRate resamples the output when non-zero and different from the
	// stream's own rate.
	TargetRate int
	// Mono downmixes multi-channel streams.
	Mono bool
	// BufSize is the number of interleaved values pulled per read; zero uses
	// the codec's preference.
	BufSize int
}

// Adapter turns an encoded payload into a PCM buffer.
type Adapter struct {
	registry *audio.Registry
	opts     Options
	logger   logrus.FieldLogger
}

// New returns an Adapter over the built-in codecs.
func New(opts Options, logger logrus.FieldLogger) *Adapter {
	return NewWithRegistry(NewRegistry(), opts, logger)
}

// NewWithRegistry returns an Adapter over a custom codec set.
func NewWithRegistry(reg *audio.Registry, opts Options, logger logrus.FieldLogger) *Adapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Adapter{registry: reg, opts: opts, logger: logger}
}

// Decode picks a codec from mimeType, falling back to the payload's magic
// bytes, and decodes data in full.
func (a *Adapter) Decode(ctx context.Context, mimeType string, data []byte) (*audio.Buffer, error) {
	logger := a.logger.WithFields(logrus.Fields{
		"function": "Adapter.Decode",
		"mime":     mimeType,
		"bytes":    len(data),
	})

	candidates := make([]string, 0, 2)
	if f, ok := formatIn(a.registry, mimeType); ok {
		candidates = append(candidates, f)
	}
	if f, ok := Sniff(data); ok && (len(candidates) == 0 || candidates[0] != f) {
		candidates = append(candidates, f)
	}

	if len(candidates) == 0 {
		logger.Debug("No codec matches media type or content")
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, mimeType)
	}

	var errs []error
	for _, format := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dec, ok := a.registry.Get(format)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: no decoder registered", format))
			continue
		}

		buf, err := a.decodeWith(ctx, dec, data)
		if err == nil {
			logger.WithFields(logrus.Fields{
				"format":      format,
				"sample_rate": buf.SampleRate,
				"channels":    buf.Channels(),
				"frames":      buf.Frames(),
			}).Debug("Decoded audio")
			return buf, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		logger.WithError(err).WithField("format", format).Debug("Codec failed")
		errs = append(errs, fmt.Errorf("%s: %w", format, err))
	}

	return nil, fmt.Errorf("%w: %w", ErrUnsupportedCodec, errors.Join(errs...))
}

func (a *Adapter) decodeWith(ctx context.Context, dec audio.Decoder, data []byte) (*audio.Buffer, error) {
	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var stream audio.Source = src
	if a.opts.Mono && stream.Channels() > 1 {
		stream = audio.NewMonoMixer(stream)
	}
	if a.opts.TargetRate > 0 && stream.SampleRate() != a.opts.TargetRate {
		stream = audio.NewResampler(stream, a.opts.TargetRate)
	}
	defer stream.Close()

	return audio.ReadAll(&ctxSource{Source: stream, ctx: ctx}, a.opts.BufSize)
}

// ctxSource stops a long decode once ctx is done.
type ctxSource struct {
	audio.Source
	ctx context.Context
}

func (c *ctxSource) ReadSamples(dst []float32) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.Source.ReadSamples(dst)
}
