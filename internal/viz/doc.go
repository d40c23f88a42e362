// Package viz provides terminal output for lattice simulations.
//
//   - [Reporter]: progress lines for temperature sweeps
//   - [Model]: interactive Bubble Tea view of a single running chain
//   - [Canvas]: Braille canvas that packs 2x4 sites into one cell
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Up/K  - Raise temperature (+5%)
//	Down/J - Lower temperature (-5%)
//	+/-   - More/fewer steps per frame
//	R     - Redraw the initial lattice
//	T     - Cycle colour themes
//	G     - Toggle GIF recording
//	?     - Show help
package viz
