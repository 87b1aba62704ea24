package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/antpole/internal/pole"
)

const (
	KindRun      = "run"
	KindAutoplay = "autoplay"

	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	outcomesFile = "outcomes.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Kind          string             `json:"kind"`
	Timestamp     time.Time          `json:"timestamp"`
	PoleLength    int                `json:"pole_length"`
	Speed         int                `json:"speed"`
	TimeIncrement int                `json:"time_increment"`
	Positions     []int              `json:"positions"`
	Directions    string             `json:"directions,omitempty"`
	Elapsed       int                `json:"elapsed"`
	Steps         int                `json:"steps"`
	Completed     bool               `json:"completed"`
	Record        *RecordSummary     `json:"record,omitempty"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
}

type RecordSummary struct {
	Min      int `json:"min"`
	Max      int `json:"max"`
	MinIndex int `json:"min_index"`
	MaxIndex int `json:"max_index"`
}

// SessionOutcome is one run of an autoplay session.
type SessionOutcome struct {
	Index      int
	Directions string
	Elapsed    int
}

func (s *Store) newID(kind string) string {
	return fmt.Sprintf("%s_%s", kind, uuid.NewString()[:8])
}

func (s *Store) metadata(kind string, params pole.Params, positions []int) RunMetadata {
	return RunMetadata{
		ID:            s.newID(kind),
		Kind:          kind,
		Timestamp:     s.now(),
		PoleLength:    params.PoleLength,
		Speed:         params.Speed,
		TimeIncrement: params.TimeIncrement,
		Positions:     append([]int(nil), positions...),
	}
}

// Save persists a single run: metadata.json plus one CSV row per frame.
func (s *Store) Save(params pole.Params, positions []int, dirs []pole.Direction, tr *pole.Trace) (string, error) {
	meta := s.metadata(KindRun, params, positions)
	meta.Directions = pole.FormatDirections(dirs)
	meta.Elapsed = tr.Elapsed
	meta.Steps = len(tr.Frames)
	meta.Completed = tr.Completed

	runDir, err := s.writeMetadata(meta)
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(tr.Frames)+1)
	header := []string{"time"}
	for i := range positions {
		header = append(header, fmt.Sprintf("p%d", i))
	}
	for i := range positions {
		header = append(header, fmt.Sprintf("d%d", i))
	}
	rows = append(rows, header)

	for _, f := range tr.Frames {
		row := []string{strconv.Itoa(f.Time)}
		for _, p := range f.Positions {
			row = append(row, strconv.Itoa(p))
		}
		for _, d := range f.Directions {
			row = append(row, strconv.Itoa(int(d)))
		}
		rows = append(rows, row)
	}

	if err := writeCSV(filepath.Join(runDir, framesFile), rows); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// SaveSession persists an autoplay session with one CSV row per outcome.
func (s *Store) SaveSession(params pole.Params, positions []int, outcomes []SessionOutcome, record RecordSummary, metrics map[string]float64) (string, error) {
	meta := s.metadata(KindAutoplay, params, positions)
	meta.Steps = len(outcomes)
	meta.Elapsed = record.Max
	meta.Completed = len(outcomes) == 1<<len(positions)
	meta.Record = &record
	meta.Metrics = metrics

	runDir, err := s.writeMetadata(meta)
	if err != nil {
		return "", err
	}

	rows := [][]string{{"index", "directions", "elapsed"}}
	for _, o := range outcomes {
		rows = append(rows, []string{strconv.Itoa(o.Index), o.Directions, strconv.Itoa(o.Elapsed)})
	}
	if err := writeCSV(filepath.Join(runDir, outcomesFile), rows); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) writeMetadata(meta RunMetadata) (string, error) {
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runDir, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads back the frames of a single run.
func (s *Store) LoadFrames(runID string) ([]pole.Frame, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []pole.Frame{}, nil
	}

	n := (len(records[0]) - 1) / 2
	frames := make([]pole.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 1+2*n {
			return nil, fmt.Errorf("%s: malformed row %v", runID, record)
		}
		vals, err := atoiAll(record)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", runID, err)
		}
		f := pole.Frame{
			Time:       vals[0],
			Positions:  vals[1 : 1+n],
			Directions: make([]pole.Direction, n),
		}
		for i, d := range vals[1+n:] {
			f.Directions[i] = pole.Direction(d)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// LoadOutcomes reads back the outcomes of an autoplay session.
func (s *Store) LoadOutcomes(runID string) ([]SessionOutcome, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, outcomesFile))
	if err != nil {
		return nil, err
	}

	outcomes := make([]SessionOutcome, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("%s: malformed row %v", runID, record)
		}
		index, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", runID, err)
		}
		elapsed, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", runID, err)
		}
		outcomes = append(outcomes, SessionOutcome{Index: index, Directions: record[1], Elapsed: elapsed})
	}
	return outcomes, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func atoiAll(record []string) ([]int, error) {
	out := make([]int, len(record))
	for i, v := range record {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
