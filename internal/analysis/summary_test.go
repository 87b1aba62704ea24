package analysis

import (
	"math"
	"reflect"
	"testing"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]int{50, 28, 54, 28, 54, 40})

	if s.Runs != 6 {
		t.Errorf("expected 6 runs, got %d", s.Runs)
	}
	if s.Min != 28 || s.MinIndex != 1 {
		t.Errorf("expected min 28 at 1, got %d at %d", s.Min, s.MinIndex)
	}
	if s.Max != 54 || s.MaxIndex != 2 {
		t.Errorf("expected max 54 at 2, got %d at %d", s.Max, s.MaxIndex)
	}
	if math.Abs(s.Mean-42.333333) > 1e-5 {
		t.Errorf("expected mean ~42.33, got %f", s.Mean)
	}
	if s.StdDev <= 0 {
		t.Errorf("expected positive stddev, got %f", s.StdDev)
	}
	if s.Median != 40 {
		t.Errorf("expected median 40, got %f", s.Median)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	if s := Summarize(nil); s.Runs != 0 || s.Mean != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}

	s := Summarize([]int{7})
	if s.Min != 7 || s.Max != 7 || s.Mean != 7 || s.StdDev != 0 {
		t.Errorf("unexpected single summary: %+v", s)
	}
	if s.Metrics()["runs"] != 1 {
		t.Errorf("expected runs metric 1, got %v", s.Metrics())
	}
}

func TestHistogram(t *testing.T) {
	start, counts := Histogram([]int{4, 8, 4, 6}, 2)
	if start != 4 {
		t.Errorf("expected start 4, got %d", start)
	}
	if !reflect.DeepEqual(counts, []float64{2, 1, 1}) {
		t.Errorf("unexpected counts: %v", counts)
	}

	if _, counts := Histogram(nil, 1); counts != nil {
		t.Errorf("expected nil counts, got %v", counts)
	}
}
