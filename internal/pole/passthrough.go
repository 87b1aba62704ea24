package pole

// PassThroughElapsed predicts the elapsed time of a run by letting ants
// walk through each other. A collision only swaps which ant carries which
// trajectory, so the prediction equals the simulated elapsed time for any
// configuration New accepts. Configurations New rejects return its error.
func PassThroughElapsed(params Params, positions []int, directions []Direction) (int, error) {
	if _, err := New(params, positions, directions); err != nil {
		return 0, err
	}
	stride := params.Stride()
	steps := 0
	for i, p := range positions {
		if p <= 0 || p >= params.PoleLength {
			continue
		}
		dist := p
		if directions[i] == Right {
			dist = params.PoleLength - p
		}
		n := (dist + stride - 1) / stride
		if n > steps {
			steps = n
		}
	}
	return steps * params.TimeIncrement, nil
}
