// SPDX-License-Identifier: EPL-2.0

package cli

type action int

const (
	actNone action = iota
	actToggle
	actStop
	actBack
	actForward
	actVolumeUp
	actVolumeDown
	actRepeat
	actRemaster
	actQuit
)

const (
	seekStep   = 5.0
	volumeStep = 3.0
)

const keyHelp = "space play/pause  s stop  ←/→ seek  +/- volume  r repeat  m remaster  q quit"

// decodeKeys turns one read from a raw terminal into actions. Arrow keys
// arrive as ESC [ C and ESC [ D.
func decodeKeys(in []byte) []action {
	var out []action
	for i := 0; i < len(in); i++ {
		if in[i] == 0x1b && i+2 < len(in) && in[i+1] == '[' {
			switch in[i+2] {
			case 'C':
				out = append(out, actForward)
			case 'D':
				out = append(out, actBack)
			}
			i += 2
			continue
		}

		switch in[i] {
		case ' ', 'p':
			out = append(out, actToggle)
		case 's', 'S':
			out = append(out, actStop)
		case 'h':
			out = append(out, actBack)
		case 'l':
			out = append(out, actForward)
		case '+', '=':
			out = append(out, actVolumeUp)
		case '-', '_':
			out = append(out, actVolumeDown)
		case 'r', 'R':
			out = append(out, actRepeat)
		case 'm', 'M':
			out = append(out, actRemaster)
		case 'q', 'Q', 3: // 3 is Ctrl+C in raw mode
			out = append(out, actQuit)
		}
	}
	return out
}
