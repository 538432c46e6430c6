// SPDX-License-Identifier: EPL-2.0

// Package cli holds the smartplay subcommands.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/sirupsen/logrus"
)

func defaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

// newLogger writes text logs to w at warn level, or debug when verbose.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// parseBands reads "hz=db" pairs such as "1000=-3".
func parseBands(specs []string) (map[float64]float64, error) {
	out := make(map[float64]float64, len(specs))
	for _, spec := range specs {
		hzStr, dbStr, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("band %q: want HZ=DB", spec)
		}

		hz, err := strconv.ParseFloat(strings.TrimSpace(hzStr), 64)
		if err != nil {
			return nil, fmt.Errorf("band %q: %w", spec, err)
		}
		db, err := strconv.ParseFloat(strings.TrimSpace(dbStr), 64)
		if err != nil {
			return nil, fmt.Errorf("band %q: %w", spec, err)
		}
		out[hz] = db
	}
	return out, nil
}

// clock formats seconds as m:ss.
func clock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
