// Package viz renders stochastic Lorenz-96 runs in the terminal.
//
//   - [Model]: Bubble Tea program stepping the model live
//   - [Canvas]: Braille pixel canvas used for the ring profile
//   - [Plot]: asciigraph line plots for the CLI
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state and seed
//	Up/K  - Raise diffusion
//	Down/J - Lower diffusion
//	+/-   - Adjust forcing
//	T     - Cycle color themes
//	Q     - Quit
package viz
