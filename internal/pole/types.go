package pole

import "fmt"

const (
	DefaultPoleLength    = 300
	DefaultSpeed         = 5
	DefaultTimeIncrement = 1
)

var defaultPositions = []int{30, 80, 110, 160, 250}

// Direction is the facing of an ant along the pole.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

func (d Direction) Valid() bool { return d == Left || d == Right }

func (d Direction) Reverse() Direction { return -d }

func (d Direction) String() string {
	switch d {
	case Left:
		return "-"
	case Right:
		return "+"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Params are the fixed physical constants of a run.
type Params struct {
	TimeIncrement int
	PoleLength    int
	Speed         int
}

func DefaultParams() Params {
	return Params{
		TimeIncrement: DefaultTimeIncrement,
		PoleLength:    DefaultPoleLength,
		Speed:         DefaultSpeed,
	}
}

// Stride is the distance an ant covers in one step.
func (p Params) Stride() int { return p.Speed * p.TimeIncrement }

func (p Params) Validate() error {
	if p.TimeIncrement <= 0 {
		return invalid("time_increment", "must be positive, got %d", p.TimeIncrement)
	}
	if p.PoleLength <= 0 {
		return invalid("pole_length", "must be positive, got %d", p.PoleLength)
	}
	if p.Speed <= 0 {
		return invalid("speed", "must be positive, got %d", p.Speed)
	}
	return nil
}

// DefaultPositions returns a fresh copy of the five reference start positions.
func DefaultPositions() []int {
	return append([]int(nil), defaultPositions...)
}

type ant struct {
	position  int
	direction Direction
	active    bool
}
