// SPDX-License-Identifier: EPL-2.0

// Package player drives the lifecycle of one audio source:
//
//	load -> offline|online -> decode -> remaster -> ready -> play/pause/stop/seek -> end
//
// Every transition is delivered as an Event to an optional catch-all
// listener and to an optional listener for that state. Two transitions are
// chained automatically: ready goes on to autoplay and play once per decode
// when autoplay is set, and end goes on to repeat and play when repeat is set.
//
// Load failures are not returned. They become one error event carrying an
// ErrorCode, and the player stays usable.
package player
