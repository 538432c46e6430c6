// SPDX-License-Identifier: EPL-2.0

package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/ik5/smartplay/internal/cli"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "smartplay",
		Short:   "Adaptive audio player",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			cli.PlayCmd(),
			cli.AnalyzeCmd(),
			cli.RenderCmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-(no build info)"
	}

	if bi.Main.Version == "" {
		return "unknown-(no version)"
	}
	return bi.Main.Version
}
