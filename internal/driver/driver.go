package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/antpole/internal/pole"
)

// MaxAutoplayAnts bounds the enumeration space at 2^20 runs.
const MaxAutoplayAnts = 20

var (
	ErrTooManyAnts = errors.New("driver: too many ants to enumerate")
	ErrNoRun       = errors.New("driver: no run started")
)

// Outcome is the result of one completed run.
type Outcome struct {
	Index      int
	Directions []pole.Direction
	Elapsed    int
}

// Driver launches simulations over a fixed set of start positions and keeps
// the record across them. It owns the lifetime of every simulation it
// starts; at most one is current at a time.
type Driver struct {
	params    pole.Params
	positions []int
	view      pole.ViewSink
	onRecord  func(Record)

	record      Record
	current     *pole.Simulation
	currentDirs []pole.Direction
	last        *Outcome

	auto      bool
	autoIndex int
}

type Option func(*Driver)

// WithRecordHook registers a function called after every completion with
// the updated record.
func WithRecordHook(fn func(Record)) Option {
	return func(d *Driver) { d.onRecord = fn }
}

// New builds a driver. A nil view discards step updates.
func New(params pole.Params, positions []int, view pole.ViewSink, opts ...Option) (*Driver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if view == nil {
		view = pole.Discard
	}
	d := &Driver{
		params:    params,
		positions: append([]int(nil), positions...),
		view:      view,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Driver) NumAnts() int        { return len(d.positions) }
func (d *Driver) Params() pole.Params { return d.params }
func (d *Driver) Positions() []int    { return append([]int(nil), d.positions...) }
func (d *Driver) Record() Record      { return d.record }
func (d *Driver) Autoplaying() bool   { return d.auto }
func (d *Driver) AutoIndex() int      { return d.autoIndex }

// Current returns the simulation most recently started, or nil.
func (d *Driver) Current() *pole.Simulation { return d.current }

// Last returns the outcome of the most recent completed run.
func (d *Driver) Last() (Outcome, bool) {
	if d.last == nil {
		return Outcome{}, false
	}
	return *d.last, true
}

// Active reports whether the current run has not ended yet.
func (d *Driver) Active() bool {
	return d.current != nil && !d.current.Ended()
}

// Start creates a new simulation with the given directions. It fails with
// pole.ErrDoubleStart while the current run is still active; on any error
// the driver state is unchanged.
func (d *Driver) Start(directions []pole.Direction) (*pole.Simulation, error) {
	if d.Active() {
		return nil, pole.ErrDoubleStart
	}
	s, err := pole.New(d.params, d.positions, directions)
	if err != nil {
		return nil, err
	}
	d.current = s
	d.currentDirs = append([]pole.Direction(nil), directions...)
	return s, nil
}

// Step advances the current run by one step and reports whether it
// continues.
func (d *Driver) Step() bool {
	if d.current == nil {
		return false
	}
	return d.current.Step(d.sink())
}

// Play starts a run and drives it to completion, returning the elapsed time.
func (d *Driver) Play(ctx context.Context, directions []pole.Direction) (int, error) {
	s, err := d.Start(directions)
	if err != nil {
		return 0, err
	}
	if err := s.Run(ctx, d.sink()); err != nil {
		return 0, err
	}
	elapsed, _ := s.Elapsed()
	return elapsed, nil
}

// Reset aborts the current run and leaves repeating mode.
func (d *Driver) Reset() {
	if d.current != nil {
		d.current.Abort()
	}
	d.auto = false
	d.autoIndex = 0
}

// StartAutoplay enters repeating mode at index 0 and launches the first run.
// Runs are then advanced with Tick.
func (d *Driver) StartAutoplay() error {
	if err := d.checkEnumerable(); err != nil {
		return err
	}
	if d.Active() {
		return pole.ErrDoubleStart
	}
	d.auto = true
	d.autoIndex = 0
	if err := d.launch(d.autoIndex); err != nil {
		d.auto = false
		return err
	}
	return nil
}

// Tick advances the current run by one step. In repeating mode a finished
// run is followed by the next index until every combination was played.
// It reports whether there is more work.
func (d *Driver) Tick() (bool, error) {
	if d.current == nil {
		return false, ErrNoRun
	}
	if d.Step() {
		return true, nil
	}
	if !d.auto || !d.current.Completed() {
		return false, nil
	}
	if d.autoIndex+1 >= 1<<len(d.positions) {
		d.auto = false
		d.autoIndex = 0
		return false, nil
	}
	d.autoIndex++
	if err := d.launch(d.autoIndex); err != nil {
		d.auto = false
		return false, err
	}
	return true, nil
}

// Autoplay plays every direction combination in index order and returns
// the outcomes. onOutcome, if set, is called after each run.
func (d *Driver) Autoplay(ctx context.Context, onOutcome func(Outcome)) ([]Outcome, error) {
	if err := d.checkEnumerable(); err != nil {
		return nil, err
	}
	total := 1 << len(d.positions)
	outcomes := make([]Outcome, 0, total)

	d.auto = true
	defer func() {
		d.auto = false
		d.autoIndex = 0
	}()

	for d.autoIndex = 0; d.autoIndex < total; d.autoIndex++ {
		dirs := pole.IndexToDirections(d.autoIndex, len(d.positions))
		elapsed, err := d.Play(ctx, dirs)
		if err != nil {
			return outcomes, fmt.Errorf("index %d: %w", d.autoIndex, err)
		}
		out := Outcome{Index: d.autoIndex, Directions: dirs, Elapsed: elapsed}
		outcomes = append(outcomes, out)
		if onOutcome != nil {
			onOutcome(out)
		}
	}
	return outcomes, nil
}

func (d *Driver) checkEnumerable() error {
	if len(d.positions) > MaxAutoplayAnts {
		return fmt.Errorf("%w: %d > %d", ErrTooManyAnts, len(d.positions), MaxAutoplayAnts)
	}
	return nil
}

func (d *Driver) launch(index int) error {
	_, err := d.Start(pole.IndexToDirections(index, len(d.positions)))
	return err
}

// sink forwards steps to the view and routes the completion of the current
// run into the record.
func (d *Driver) sink() pole.ViewSink {
	dirs := d.currentDirs
	return pole.SinkFuncs{
		Step: d.view.OnStep,
		Complete: func(elapsed int) {
			d.record.Observe(elapsed)
			d.last = &Outcome{
				Index:      pole.DirectionsToIndex(dirs),
				Directions: append([]pole.Direction(nil), dirs...),
				Elapsed:    elapsed,
			}
			d.view.OnComplete(elapsed)
			if d.onRecord != nil {
				d.onRecord(d.record)
			}
		},
	}
}
