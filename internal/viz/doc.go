// Package viz provides the live terminal view of a pole run.
//
// The view is a Bubble Tea program driven by a fixed tick. Each tick
// advances the current run by one step through a [driver.Driver]; the
// driver reports frames back to the view through its sink.
//
// # Key Bindings
//
//	Space      - Pause/Resume
//	Enter      - Start a run with the edited directions
//	A          - Autoplay every direction combination
//	R          - Reset (abort the current run, stop autoplay)
//	Left/Right - Select an ant
//	D          - Flip the selected ant's direction
//	Q          - Quit
package viz
