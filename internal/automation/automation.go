package automation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/antpole/internal/analysis"
	"github.com/san-kum/antpole/internal/config"
	"github.com/san-kum/antpole/internal/driver"
	"github.com/san-kum/antpole/internal/pole"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single entry in a scenario. Positions and Directions
// override the preset; Autoplay plays every combination instead of one.
type ScenarioStep struct {
	Preset     string `yaml:"preset"`
	Positions  []int  `yaml:"positions"`
	Directions string `yaml:"directions"`
	Index      *int   `yaml:"index"`
	Autoplay   bool   `yaml:"autoplay"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step     int
	Config   *config.Config
	Outcomes []driver.Outcome
	Record   driver.Record
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (st ScenarioStep) resolve() (*config.Config, []pole.Direction, error) {
	cfg := config.DefaultConfig()
	if st.Preset != "" {
		p, err := config.GetPreset(st.Preset)
		if err != nil {
			return nil, nil, err
		}
		cfg = p
	}
	if len(st.Positions) > 0 {
		cfg.Positions = append([]int(nil), st.Positions...)
		cfg.Directions = ""
	}
	if st.Directions != "" {
		cfg.Directions = st.Directions
	}

	dirs, err := cfg.InitialDirections()
	if err != nil {
		return nil, nil, err
	}
	if st.Index != nil {
		dirs = pole.IndexToDirections(*st.Index, len(cfg.Positions))
	}
	return cfg, dirs, nil
}

// RunScenario executes all steps in a scenario, printing progress to out.
func RunScenario(ctx context.Context, scenario *Scenario, out io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, dirs, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		d, err := driver.New(cfg.Params(), cfg.Positions, nil)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res := StepResult{Step: i + 1, Config: cfg}
		if step.Autoplay {
			fmt.Fprintf(out, "step %d/%d: autoplay %s\n", i+1, len(scenario.Steps), pole.FormatPositions(cfg.Positions))
			res.Outcomes, err = d.Autoplay(ctx, nil)
		} else {
			fmt.Fprintf(out, "step %d/%d: %s %s\n", i+1, len(scenario.Steps), pole.FormatPositions(cfg.Positions), pole.FormatDirections(dirs))
			_, err = d.Play(ctx, dirs)
			if last, ok := d.Last(); ok {
				res.Outcomes = []driver.Outcome{last}
			}
		}
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res.Record = d.Record()
		results = append(results, res)
	}

	return results, nil
}

// RandomTrialConfig describes random start layouts to enumerate.
type RandomTrialConfig struct {
	Params    pole.Params
	NumAnts   int
	NumTrials int
	Seed      int64
	Workers   int
}

// TrialResult holds the autoplay record of one random layout.
type TrialResult struct {
	TrialID   int
	Positions []int
	Summary   analysis.Summary
}

// RandomPositions draws n distinct positions strictly inside the pole on
// even multiples of the stride, so that every crossing lands on a step
// boundary and is seen as a collision.
func RandomPositions(rng *rand.Rand, params pole.Params, n int) ([]int, error) {
	grid := 2 * params.Stride()
	slots := (params.PoleLength - 1) / grid
	if n > slots {
		return nil, fmt.Errorf("%w: %d ants do not fit on %d grid slots", pole.ErrInvalidConfiguration, n, slots)
	}

	picks := rng.Perm(slots)[:n]
	positions := make([]int, n)
	for i, k := range picks {
		positions[i] = (k + 1) * grid
	}
	sort.Ints(positions)
	return positions, nil
}

// RunRandomTrials autoplays NumTrials random layouts.
func RunRandomTrials(ctx context.Context, cfg RandomTrialConfig, out io.Writer) ([]TrialResult, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	results := make([]TrialResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		positions, err := RandomPositions(rng, cfg.Params, cfg.NumAnts)
		if err != nil {
			return results, err
		}

		outcomes, _, err := driver.Enumerate(ctx, cfg.Params, positions, cfg.Workers)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		elapsed := make([]int, len(outcomes))
		for i, o := range outcomes {
			elapsed[i] = o.Elapsed
		}
		results = append(results, TrialResult{
			TrialID:   trial,
			Positions: positions,
			Summary:   analysis.Summarize(elapsed),
		})

		if (trial+1)%10 == 0 {
			fmt.Fprintf(out, "random trials: %d/%d complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}
