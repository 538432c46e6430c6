// SPDX-License-Identifier: EPL-2.0

package player

import "fmt"

// State is a lifecycle state of a Player.
type State int

const (
	StateInit State = iota
	StateLoad
	StateOffline
	StateOnline
	StateDecode
	StateRemaster
	StateReady
	StatePlay
	StatePause
	StateStop
	StateSeek
	StateEnd
	StateAutoplay
	StateRepeat
	StateError
)

var stateNames = [...]string{
	StateInit:     "init",
	StateLoad:     "load",
	StateOffline:  "offline",
	StateOnline:   "online",
	StateDecode:   "decode",
	StateRemaster: "remaster",
	StateReady:    "ready",
	StatePlay:     "play",
	StatePause:    "pause",
	StateStop:     "stop",
	StateSeek:     "seek",
	StateEnd:      "end",
	StateAutoplay: "autoplay",
	StateRepeat:   "repeat",
	StateError:    "error",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// States lists every state in declaration order.
func States() []State {
	out := make([]State, len(stateNames))
	for i := range out {
		out[i] = State(i)
	}
	return out
}

// ErrorCode classifies an error event. Zero means no error.
type ErrorCode int

const (
	CodeNone ErrorCode = iota
	CodeInvalidSource
	CodeSourceUnreachable
	CodeUnsupportedCodec
	CodeIncompatibleEnvironment
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeInvalidSource:
		return "invalid source"
	case CodeSourceUnreachable:
		return "source unreachable"
	case CodeUnsupportedCodec:
		return "unsupported codec"
	case CodeIncompatibleEnvironment:
		return "incompatible environment"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// Event is delivered to listeners on every transition.
type Event struct {
	State   State
	Code    ErrorCode
	Message string
}

// Listener receives events. It may call back into the Player.
type Listener func(Event)

// edge chains a follow-up transition after entering from.
type edge struct {
	from   State
	guard  func(p *Player) bool
	via    State
	action func(p *Player)
}

// edges run in order after the state they start from is entered. They are
// set in init because their actions re-enter setState.
var edges []edge

func init() {
	edges = []edge{
		{
			from:  StateReady,
			guard: func(p *Player) bool { return p.s.autoplay && p.s.autoplayArmed },
			via:   StateAutoplay,
			action: func(p *Player) {
				p.s.autoplayArmed = false
				p.playLocked(false)
			},
		},
		{
			from:  StateEnd,
			guard: func(p *Player) bool { return p.s.repeat },
			via:   StateRepeat,
			action: func(p *Player) {
				p.s.startedAt, p.s.pausedAt = 0, 0
				p.playLocked(false)
			},
		},
	}
}
