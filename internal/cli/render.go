// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/ik5/smartplay"
	"github.com/ik5/smartplay/decoder"
)

type RenderParams struct {
	Input      string   `pos:"true" required:"true" help:"Source file or URL."`
	Output     string   `short:"o" required:"true" help:"WAV file to write."`
	Volume     float64  `short:"V" optional:"true" help:"Master volume in dB, -100 to 0." default:"0"`
	Band       []string `short:"b" optional:"true" help:"Equalizer band as HZ=DB, repeatable."`
	NoRemaster bool     `optional:"true" help:"Skip the normalizer and compressor."`
	Mono       bool     `short:"m" optional:"true" help:"Mix to mono before rendering."`
	Rate       int      `short:"r" optional:"true" help:"Resample to this rate, 0 keeps the source rate." default:"0"`
	BitDepth   int      `optional:"true" help:"Output bit depth: 8, 16, 24 or 32." default:"16"`
	Verbose    bool     `short:"v" optional:"true" help:"Log debug output to stderr."`
}

func RenderCmd() *cobra.Command {
	return boa.CmdT[RenderParams]{
		Use:         "render",
		Short:       "Write the remastered signal to a WAV file",
		Long:        "Decode a source, run it through the same normalizer, compressor, equalizer and master chain used for playback, and write the result as PCM WAV.",
		ParamEnrich: defaultParamEnricher(),
		RunFunc: func(params *RenderParams, cmd *cobra.Command, args []string) {
			os.Exit(RunRender(cmd.Context(), params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunRender(ctx context.Context, params *RenderParams, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}

	bands, err := parseBands(params.Band)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 2
	}

	out, err := os.Create(params.Output)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}

	report, err := smartplay.RenderFile(ctx, params.Input, out, smartplay.RenderOptions{
		Options: smartplay.Options{
			Decoder: decoder.Options{Mono: params.Mono, TargetRate: params.Rate},
			Logger:  newLogger(stderr, params.Verbose),
		},
		NoRemaster: params.NoRemaster,
		Volume:     params.Volume,
		EQ:         bands,
		BitDepth:   params.BitDepth,
	})
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(params.Output)
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "%s -> %s (%s, %d Hz, %d ch, %s)\n",
		report.Source, params.Output, clock(report.Duration), report.SampleRate, report.Channels, report.Profile)
	return 0
}
