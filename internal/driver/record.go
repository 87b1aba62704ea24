package driver

// Record holds the best and worst completion times seen by a driver.
type Record struct {
	Max    int
	Min    int
	Played bool
}

// Observe folds one completion time into the record. The first completion
// sets both bounds.
func (r *Record) Observe(elapsed int) {
	if !r.Played {
		r.Max, r.Min, r.Played = elapsed, elapsed, true
		return
	}
	if elapsed > r.Max {
		r.Max = elapsed
	}
	if elapsed < r.Min {
		r.Min = elapsed
	}
}
