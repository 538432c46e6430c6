// SPDX-License-Identifier: EPL-2.0

// Package smartplay is an adaptive audio player for Go applications.
//
// A source is loaded from a file, an in-memory blob or an http(s) URL,
// decoded to PCM, measured once, and played through a processing chain whose
// loudness and dynamics settings are derived from that measurement. The
// chain is fixed:
//
//	normalizer -> compressor -> 12 band equalizer -> master volume -> output
//
// # Supported Formats
//
// Decoding is done by the format packages:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF via formats/aiff
//
// The format is chosen from the media type and, failing that, from the
// leading bytes of the payload.
//
// # Quick Start
//
// NewPlayer binds a player.Player to the system speaker:
//
//	p, err := smartplay.NewPlayer(speaker.DefaultConfig, logger,
//		player.WithAutoplay(true),
//		player.WithOnState(func(ev player.Event) { log.Println(ev.State) }),
//	)
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	p.SetSrc("https://example.com/song.mp3")
//
// Every change of state is delivered as a player.Event. Load failures are
// never returned from Load; they arrive as one error event carrying a
// player.ErrorCode.
//
// # Offline Use
//
// AnalyzeFile reports the measurement and the derived correction without
// touching audio hardware, and RenderFile writes the corrected signal to a
// WAV file:
//
//	report, err := smartplay.AnalyzeFile(ctx, "in.mp3", smartplay.Options{})
//	fmt.Println(report.Profile)
//
//	out, _ := os.Create("out.wav")
//	_, err = smartplay.RenderFile(ctx, "in.mp3", out, smartplay.RenderOptions{Volume: -3})
//
// # Building Blocks
//
// The packages underneath can be used on their own:
//   - loader opens and validates sources
//   - decoder turns payloads into audio.Buffer values
//   - remaster measures a buffer and derives a remaster.Profile
//   - graph drives any node backend through graph.Controller
//   - dsp is a software backend used for offline rendering and by speaker
//   - player is the state machine tying them together
//
// See the individual subpackages for more detailed documentation.
package smartplay
