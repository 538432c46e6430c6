// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ik5/smartplay"
	"github.com/ik5/smartplay/player"
	"github.com/ik5/smartplay/speaker"
)

type PlayParams struct {
	Source     string   `pos:"true" required:"true" help:"File or URL to play."`
	Repeat     bool     `short:"r" optional:"true" help:"Start again from the beginning at the end."`
	NoRemaster bool     `optional:"true" help:"Start with the normalizer and compressor switched off."`
	Volume     float64  `short:"V" optional:"true" help:"Master volume in dB, -100 to 0." default:"0"`
	Band       []string `short:"b" optional:"true" help:"Equalizer band as HZ=DB, repeatable."`
	Rate       int      `optional:"true" help:"Output sample rate." default:"44100"`
	Verbose    bool     `short:"v" optional:"true" help:"Log debug output to stderr."`
}

func PlayCmd() *cobra.Command {
	return boa.CmdT[PlayParams]{
		Use:         "play",
		Short:       "Play a source through the adaptive chain",
		Long:        "Load a file or URL, derive its remaster profile and play it. " + keyHelp + ".",
		ParamEnrich: defaultParamEnricher(),
		RunFunc: func(params *PlayParams, cmd *cobra.Command, args []string) {
			os.Exit(RunPlay(params, os.Stdin, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

var (
	stateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// status is one frame of the status line.
type status struct {
	State    player.State
	Playing  bool
	Position float64
	Duration float64
	Volume   float64
	Remaster bool
	Repeat   bool
}

func snapshot(p *smartplay.Player) status {
	return status{
		State:    p.State(),
		Playing:  p.IsPlaying(),
		Position: p.CurrentTime(),
		Duration: p.Duration(),
		Volume:   p.Volume(),
		Remaster: p.Remaster(),
		Repeat:   p.Repeat(),
	}
}

func toggle(name string, on bool) string {
	if on {
		return onStyle.Render(name)
	}
	return offStyle.Render(name)
}

func statusLine(st status) string {
	icon := "■"
	switch {
	case st.Playing:
		icon = "▶"
	case st.State == player.StatePause:
		icon = "⏸"
	}

	return strings.Join([]string{
		stateStyle.Render(fmt.Sprintf("%s %-8s", icon, st.State)),
		timeStyle.Render(clock(st.Position) + " / " + clock(st.Duration)),
		fmt.Sprintf("vol %.0f dB", st.Volume),
		toggle("remaster", st.Remaster),
		toggle("repeat", st.Repeat),
	}, "  ")
}

// apply runs a key action. It reports false when the user asked to quit.
func apply(p *smartplay.Player, a action) bool {
	switch a {
	case actToggle:
		p.PlayPause()
	case actStop:
		p.Stop()
	case actBack:
		p.Seek(p.CurrentTime() - seekStep)
	case actForward:
		p.Seek(p.CurrentTime() + seekStep)
	case actVolumeUp:
		p.SetVolume(p.Volume() + volumeStep)
	case actVolumeDown:
		p.SetVolume(p.Volume() - volumeStep)
	case actRepeat:
		p.SetRepeat(!p.Repeat())
	case actRemaster:
		p.SetRemaster(!p.Remaster())
	case actQuit:
		return false
	}
	return true
}

// forward returns a listener feeding events. Error and end events end the
// session and wait for room until done is closed. Other events only trigger
// a redraw and are dropped when events is full, since listeners also run on
// the goroutine that drains it.
func forward(events chan<- player.Event, done <-chan struct{}) player.Listener {
	return func(ev player.Event) {
		if ev.State != player.StateError && ev.State != player.StateEnd {
			select {
			case events <- ev:
			default:
			}
			return
		}

		select {
		case events <- ev:
		case <-done:
		}
	}
}

func RunPlay(params *PlayParams, stdin *os.File, stdout, stderr io.Writer) int {
	bands, err := parseBands(params.Band)
	if err != nil {
		fmt.Fprintf(stderr, "play: %v\n", err)
		return 2
	}

	logger := newLogger(stderr, params.Verbose)
	if !params.Verbose {
		// warnings would tear the status line
		logger.SetLevel(logrus.ErrorLevel)
	}

	done := make(chan struct{})
	events := make(chan player.Event, 64)
	onState := forward(events, done)

	cfg := speaker.DefaultConfig
	cfg.SampleRate = params.Rate

	p, err := smartplay.NewPlayer(cfg, logger,
		player.WithAutoplay(true),
		player.WithRepeat(params.Repeat),
		player.WithRemaster(!params.NoRemaster),
		player.WithOnState(onState),
	)
	if err != nil {
		fmt.Fprintf(stderr, "play: %v\n", err)
		return 1
	}
	defer func() {
		close(done)
		_ = p.Close()
	}()

	p.SetVolume(params.Volume)
	for hz, db := range bands {
		if err := p.SetEQ(hz, db); err != nil {
			fmt.Fprintf(stderr, "play: %v\n", err)
			return 2
		}
	}

	fd := int(stdin.Fd())
	eol := "\n"
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			fmt.Fprintf(stderr, "play: raw mode: %v\n", err)
			return 1
		}
		defer term.Restore(fd, oldState)
		eol = "\r\n"

		fmt.Fprint(stdout, offStyle.Render(keyHelp)+eol)
	}

	keys := make(chan []byte)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := stdin.Read(buf)
			if err != nil {
				return
			}
			select {
			case keys <- append([]byte(nil), buf[:n]...):
			case <-done:
				return
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	draw := func() {
		fmt.Fprint(stdout, "\r"+statusLine(snapshot(p))+"\x1b[K")
	}

	p.SetSrc(params.Source)

	for {
		select {
		case <-sigChan:
			fmt.Fprint(stdout, eol)
			return 130
		case in := <-keys:
			for _, a := range decodeKeys(in) {
				if !apply(p, a) {
					fmt.Fprint(stdout, eol)
					return 0
				}
			}
			draw()
		case ev := <-events:
			switch {
			case ev.State == player.StateError:
				fmt.Fprint(stdout, "\r"+errStyle.Render(fmt.Sprintf("error: %s (%s)", ev.Message, ev.Code))+"\x1b[K"+eol)
				return 1
			case ev.State == player.StateEnd && !p.Repeat():
				draw()
				fmt.Fprint(stdout, eol)
				return 0
			}
			draw()
		case <-ticker.C:
			draw()
		}
	}
}
