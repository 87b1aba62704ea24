package pole

import "context"

// Simulation is one run of ants on a pole. It is created with its full
// initial state, stepped until it ends, and then discarded.
type Simulation struct {
	params    Params
	ants      []ant
	time      int
	started   bool
	ended     bool
	completed bool
}

// New validates the configuration and builds a simulation at time 0.
// Ants placed exactly on either end count as already exited. Two ants on
// the pole may share a start position only if they face opposite ways.
func New(params Params, positions []int, directions []Direction) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(positions) != len(directions) {
		return nil, invalid("directions", "got %d directions for %d positions", len(directions), len(positions))
	}

	type start struct {
		position  int
		direction Direction
	}
	ants := make([]ant, len(positions))
	seen := make(map[start]int, len(positions))
	for i, p := range positions {
		if p < 0 || p > params.PoleLength {
			return nil, invalid("positions", "ant %d at %d is outside [0, %d]", i, p, params.PoleLength)
		}
		if !directions[i].Valid() {
			return nil, invalid("directions", "ant %d has direction %d, want -1 or +1", i, int(directions[i]))
		}
		active := p > 0 && p < params.PoleLength
		if active {
			key := start{p, directions[i]}
			if j, dup := seen[key]; dup {
				return nil, invalid("positions", "ants %d and %d both start at %d facing %s", j, i, p, directions[i])
			}
			seen[key] = i
		}
		ants[i] = ant{position: p, direction: directions[i], active: active}
	}

	return &Simulation{params: params, ants: ants}, nil
}

// Step advances the simulation by one time increment and reports whether
// the run continues. It is a no-op on an ended simulation.
func (s *Simulation) Step(sink ViewSink) bool {
	if s.ended {
		return false
	}
	if sink == nil {
		sink = Discard
	}
	if !s.started {
		s.started = true
		if s.activeCount() == 0 {
			s.finish(sink)
			return false
		}
	}

	s.time += s.params.TimeIncrement
	stride := s.params.Stride()

	for i := range s.ants {
		if s.ants[i].active {
			s.ants[i].position += int(s.ants[i].direction) * stride
		}
	}

	for i := range s.ants {
		if !s.ants[i].active {
			continue
		}
		for j := i + 1; j < len(s.ants); j++ {
			if s.ants[j].active && s.ants[i].position == s.ants[j].position {
				s.ants[i].direction = s.ants[i].direction.Reverse()
				s.ants[j].direction = s.ants[j].direction.Reverse()
			}
		}
	}

	for i := range s.ants {
		a := &s.ants[i]
		if !a.active {
			continue
		}
		switch {
		case a.position <= 0:
			a.position = 0
			a.active = false
		case a.position >= s.params.PoleLength:
			a.position = s.params.PoleLength
			a.active = false
		}
	}

	sink.OnStep(s.Positions(), s.Directions(), s.time)
	if s.ended {
		return false
	}

	if s.activeCount() == 0 {
		s.finish(sink)
		return false
	}
	return true
}

// Run steps the simulation until it ends. A cancelled context aborts the
// run and its error is returned.
func (s *Simulation) Run(ctx context.Context, sink ViewSink) error {
	for !s.ended {
		select {
		case <-ctx.Done():
			s.Abort()
			return ctx.Err()
		default:
		}
		s.Step(sink)
	}
	return nil
}

// Abort ends the run immediately. No further callbacks are made and no
// completion is reported, also when Abort is called from inside OnStep.
// Calling Abort on an ended simulation does nothing.
func (s *Simulation) Abort() {
	s.ended = true
}

func (s *Simulation) finish(sink ViewSink) {
	s.ended = true
	s.completed = true
	sink.OnComplete(s.time)
}

func (s *Simulation) activeCount() int {
	n := 0
	for _, a := range s.ants {
		if a.active {
			n++
		}
	}
	return n
}

func (s *Simulation) Ended() bool     { return s.ended }
func (s *Simulation) Completed() bool { return s.completed }
func (s *Simulation) Aborted() bool   { return s.ended && !s.completed }
func (s *Simulation) Time() int       { return s.time }
func (s *Simulation) NumAnts() int    { return len(s.ants) }
func (s *Simulation) Params() Params  { return s.params }

// Elapsed returns the completion time and whether the run completed.
func (s *Simulation) Elapsed() (int, bool) {
	if !s.completed {
		return 0, false
	}
	return s.time, true
}

func (s *Simulation) Positions() []int {
	out := make([]int, len(s.ants))
	for i, a := range s.ants {
		out[i] = a.position
	}
	return out
}

func (s *Simulation) Directions() []Direction {
	out := make([]Direction, len(s.ants))
	for i, a := range s.ants {
		out[i] = a.direction
	}
	return out
}

func (s *Simulation) Active() []bool {
	out := make([]bool, len(s.ants))
	for i, a := range s.ants {
		out[i] = a.active
	}
	return out
}
