package pole

// ViewSink receives the output of a simulation. OnStep is called once per
// step in step order; OnComplete is called once on natural termination and
// never after an abort. Slices passed to OnStep are copies owned by the sink.
type ViewSink interface {
	OnStep(positions []int, directions []Direction, time int)
	OnComplete(elapsed int)
}

// SinkFuncs adapts a pair of functions to ViewSink. Nil fields are skipped.
type SinkFuncs struct {
	Step     func(positions []int, directions []Direction, time int)
	Complete func(elapsed int)
}

func (f SinkFuncs) OnStep(positions []int, directions []Direction, time int) {
	if f.Step != nil {
		f.Step(positions, directions, time)
	}
}

func (f SinkFuncs) OnComplete(elapsed int) {
	if f.Complete != nil {
		f.Complete(elapsed)
	}
}

// Discard ignores every callback.
var Discard ViewSink = SinkFuncs{}

type tee []ViewSink

// Tee fans callbacks out to every sink in order.
func Tee(sinks ...ViewSink) ViewSink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (t tee) OnStep(positions []int, directions []Direction, time int) {
	for i, s := range t {
		p, d := positions, directions
		if i > 0 {
			p = append([]int(nil), positions...)
			d = append([]Direction(nil), directions...)
		}
		s.OnStep(p, d, time)
	}
}

func (t tee) OnComplete(elapsed int) {
	for _, s := range t {
		s.OnComplete(elapsed)
	}
}

// Frame is one emitted step.
type Frame struct {
	Time       int
	Positions  []int
	Directions []Direction
}

// Trace records every frame and the completion of a run.
type Trace struct {
	Frames    []Frame
	Elapsed   int
	Completed bool
}

func (t *Trace) OnStep(positions []int, directions []Direction, time int) {
	t.Frames = append(t.Frames, Frame{Time: time, Positions: positions, Directions: directions})
}

func (t *Trace) OnComplete(elapsed int) {
	t.Elapsed = elapsed
	t.Completed = true
}

// FirstExit returns the time of the first frame in which an ant that
// started on the pole stands on a boundary, or false if none does. Ants
// whose start position is already a boundary never count.
func (t *Trace) FirstExit(start []int, length int) (int, bool) {
	for _, f := range t.Frames {
		for i, p := range f.Positions {
			if i < len(start) && (start[i] <= 0 || start[i] >= length) {
				continue
			}
			if p <= 0 || p >= length {
				return f.Time, true
			}
		}
	}
	return 0, false
}
