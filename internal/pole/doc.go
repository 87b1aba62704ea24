// Package pole simulates ants walking on a finite pole.
//
// Every ant moves at the same constant speed in one of two directions.
// Ants that land on the same position at a step boundary both reverse;
// ants that reach either end leave the pole. The simulation advances in
// fixed time increments until the pole is empty:
//
//   - [Simulation]: single-use state machine, one per run
//   - [ViewSink]: receives a frame per step and the elapsed time at the end
//   - [Trace]: a sink that records every frame
//   - [IndexToDirections]: bitmask to direction vector
//
// # Example
//
//	s, err := pole.New(pole.DefaultParams(), pole.DefaultPositions(), dirs)
//	if err != nil {
//		return err
//	}
//	var tr pole.Trace
//	err = s.Run(ctx, &tr)
//
// # Thread Safety
//
// A Simulation is NOT thread-safe. Sinks are called synchronously from the
// goroutine that drives Step or Run and receive copies of ant state.
package pole
