// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ik5/smartplay"
	"github.com/ik5/smartplay/decoder"
)

type AnalyzeParams struct {
	Sources       []string `pos:"true" required:"true" help:"Files or URLs to analyze."`
	Mono          bool     `short:"m" optional:"true" help:"Mix to mono before measuring."`
	BypassSilence bool     `optional:"true" help:"Report a neutral profile for silent input."`
	Verbose       bool     `short:"v" optional:"true" help:"Log debug output to stderr."`
}

func AnalyzeCmd() *cobra.Command {
	return boa.CmdT[AnalyzeParams]{
		Use:         "analyze",
		Short:       "Measure sources and print their remaster profile",
		Long:        "Decode each source, measure peak and average amplitude and print the normalizer and compressor settings playback would use.",
		ParamEnrich: defaultParamEnricher(),
		RunFunc: func(params *AnalyzeParams, cmd *cobra.Command, args []string) {
			os.Exit(RunAnalyze(cmd.Context(), params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunAnalyze(ctx context.Context, params *AnalyzeParams, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := smartplay.Options{
		Decoder:       decoder.Options{Mono: params.Mono},
		BypassSilence: params.BypassSilence,
		Logger:        newLogger(stderr, params.Verbose),
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Type", "Rate", "Ch", "Length", "Peak", "Average", "Gain", "Threshold", "Ratio", "Knee"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})

	failed := false
	for _, src := range params.Sources {
		report, err := smartplay.AnalyzeFile(ctx, src, opts)
		if err != nil {
			fmt.Fprintf(stderr, "analyze: %v\n", err)
			failed = true
			continue
		}

		p := report.Profile
		t.AppendRow(table.Row{
			report.Source,
			report.MIMEType,
			report.SampleRate,
			report.Channels,
			clock(report.Duration),
			fmt.Sprintf("%.3f", report.Stats.Peak),
			fmt.Sprintf("%.3f", report.Stats.Average),
			fmt.Sprintf("%.2f", p.NormalizerGain),
			fmt.Sprintf("%.0f dB", p.Threshold),
			fmt.Sprintf("%.0f:1", p.Ratio),
			fmt.Sprintf("%.0f dB", p.Knee),
		})
	}

	if t.Length() > 0 {
		t.Render()
	}

	if failed {
		return 1
	}
	return 0
}
