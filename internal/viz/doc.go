// Package viz is the terminal presentation of the simulation.
//
// A Bubble Tea program steps a [dynamo.Driver] once per frame and draws the
// container, both trails and both bodies onto a Braille [Canvas], with a
// lipgloss stats panel and an asciigraph energy chart beside it.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Restart with the next seed
//	T     - Cycle themes (scene and panel colours)
//	G     - Toggle GIF recording
//	E     - Save the frame on screen as SVG
//	V     - Toggle velocity arrows
//	?     - Show help overlay
//	[]/   - Time travel (rewind/forward)
//
// Once the target collision count is reached the view shows a completion
// banner. [ rewinds into the replay; any other key closes it.
//
// [RunInteractive] opens a preset picker in front of the live view.
package viz
