package driver

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/antpole/internal/pole"
)

const minChunk = 64

// Enumerate plays every direction combination like Autoplay, but on
// independent simulations spread across workers. Outcomes come back in
// index order. workers <= 0 uses one worker per CPU.
func Enumerate(ctx context.Context, params pole.Params, positions []int, workers int) ([]Outcome, Record, error) {
	if len(positions) > MaxAutoplayAnts {
		return nil, Record{}, fmt.Errorf("%w: %d > %d", ErrTooManyAnts, len(positions), MaxAutoplayAnts)
	}
	positions = append([]int(nil), positions...)
	if _, err := pole.New(params, positions, pole.IndexToDirections(0, len(positions))); err != nil {
		return nil, Record{}, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	total := 1 << len(positions)
	outcomes := make([]Outcome, total)
	errs := make([]error, total)

	parallelFor(total, workers, func(start, end int) {
		for i := start; i < end; i++ {
			dirs := pole.IndexToDirections(i, len(positions))
			sim, err := pole.New(params, positions, dirs)
			if err == nil {
				err = sim.Run(ctx, nil)
			}
			if err != nil {
				errs[i] = fmt.Errorf("index %d: %w", i, err)
				return
			}
			elapsed, _ := sim.Elapsed()
			outcomes[i] = Outcome{Index: i, Directions: dirs, Elapsed: elapsed}
		}
	})

	var rec Record
	for i := range outcomes {
		if errs[i] != nil {
			return nil, Record{}, errs[i]
		}
		rec.Observe(outcomes[i].Elapsed)
	}
	return outcomes, rec, nil
}

// parallelFor runs fn over contiguous chunks of [0, n).
func parallelFor(n, workers int, fn func(start, end int)) {
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
