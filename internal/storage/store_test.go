package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/antpole/internal/pole"
)

func tracedRun(t *testing.T, dirs []pole.Direction) *pole.Trace {
	t.Helper()
	s, err := pole.New(pole.DefaultParams(), pole.DefaultPositions(), dirs)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	tr := &pole.Trace{}
	if err := s.Run(context.Background(), tr); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return tr
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	dirs := pole.IndexToDirections(0b00101, 5)
	tr := tracedRun(t, dirs)

	runID, err := st.Save(pole.DefaultParams(), pole.DefaultPositions(), dirs, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Kind != KindRun {
		t.Errorf("expected kind run, got %s", meta.Kind)
	}
	if meta.Directions != "+-+--" {
		t.Errorf("expected directions +-+--, got %s", meta.Directions)
	}
	if meta.Elapsed != tr.Elapsed || !meta.Completed {
		t.Errorf("expected completed elapsed %d, got %d (%v)", tr.Elapsed, meta.Elapsed, meta.Completed)
	}
	if meta.Steps != len(tr.Frames) {
		t.Errorf("expected %d steps, got %d", len(tr.Frames), meta.Steps)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if !reflect.DeepEqual(frames, tr.Frames) {
		t.Error("frames differ after round trip")
	}
}

func TestStoreSession(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	outcomes := []SessionOutcome{
		{Index: 0, Directions: "--", Elapsed: 8},
		{Index: 1, Directions: "+-", Elapsed: 7},
		{Index: 2, Directions: "-+", Elapsed: 7},
		{Index: 3, Directions: "++", Elapsed: 9},
	}
	record := RecordSummary{Min: 7, Max: 9, MinIndex: 1, MaxIndex: 3}
	params := pole.Params{TimeIncrement: 1, PoleLength: 10, Speed: 1}

	runID, err := st.SaveSession(params, []int{1, 2}, outcomes, record, map[string]float64{"mean": 7.75})
	if err != nil {
		t.Fatalf("save session failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Kind != KindAutoplay || !meta.Completed {
		t.Errorf("unexpected session metadata: %+v", meta)
	}
	if meta.Record == nil || *meta.Record != record {
		t.Errorf("expected record %+v, got %+v", record, meta.Record)
	}
	if meta.Metrics["mean"] != 7.75 {
		t.Errorf("expected mean 7.75, got %f", meta.Metrics["mean"])
	}

	loaded, err := st.LoadOutcomes(runID)
	if err != nil {
		t.Fatalf("load outcomes failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, outcomes) {
		t.Errorf("outcomes differ: %v", loaded)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(-tick) * time.Minute)
	}

	dirs := pole.IndexToDirections(0, 5)
	tr := tracedRun(t, dirs)
	first, err := st.Save(pole.DefaultParams(), pole.DefaultPositions(), dirs, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(pole.DefaultParams(), pole.DefaultPositions(), dirs, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected oldest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	dirs := pole.IndexToDirections(31, 5)
	runID, err := st.Save(pole.DefaultParams(), pole.DefaultPositions(), dirs, tracedRun(t, dirs))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, metadataFile)); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, framesFile)); os.IsNotExist(err) {
		t.Error("frames.csv not created")
	}
}
