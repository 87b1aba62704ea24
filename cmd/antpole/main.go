package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/antpole/internal/analysis"
	"github.com/san-kum/antpole/internal/automation"
	"github.com/san-kum/antpole/internal/config"
	"github.com/san-kum/antpole/internal/driver"
	"github.com/san-kum/antpole/internal/export"
	"github.com/san-kum/antpole/internal/pole"
	"github.com/san-kum/antpole/internal/storage"
	"github.com/san-kum/antpole/internal/tui"
	"github.com/san-kum/antpole/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	// Pole overrides
	poleLength int
	speed      int
	increment  int
	positions  []int
	// Run options
	index     int
	trace     bool
	frameRate int
	save      bool
	svgPath   string
	// Random trials
	numAnts   int
	numTrials int
	seed      int64
	workers   int
)

// main registers the antpole commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "antpole",
		Short: "ants on a pole simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFlags(log.Ltime | log.Lmicroseconds)
			if !verbose {
				log.SetOutput(io.Discard)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".antpole", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	poleFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
		cmd.Flags().IntVar(&poleLength, "length", pole.DefaultPoleLength, "pole length")
		cmd.Flags().IntVar(&speed, "speed", pole.DefaultSpeed, "ant speed")
		cmd.Flags().IntVar(&increment, "inc", pole.DefaultTimeIncrement, "time increment per step")
		cmd.Flags().IntSliceVar(&positions, "positions", pole.DefaultPositions(), "ant start positions")
	}

	runCmd := &cobra.Command{
		Use:   "run [directions]",
		Short: "run one simulation, e.g. run +-+--",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOnce,
	}
	poleFlags(runCmd)
	runCmd.Flags().IntVar(&index, "index", -1, "direction bitmask, bit k sets ant k facing right")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print every step")
	runCmd.Flags().IntVar(&frameRate, "fps", 0, "pace traced steps at this frame rate")
	runCmd.Flags().BoolVar(&save, "save", false, "store the run")

	autoplayCmd := &cobra.Command{
		Use:   "autoplay",
		Short: "play every direction combination",
		Args:  cobra.NoArgs,
		RunE:  runAutoplay,
	}
	poleFlags(autoplayCmd)
	autoplayCmd.Flags().BoolVar(&save, "save", false, "store the session")
	autoplayCmd.Flags().IntVar(&workers, "workers", 1, "enumerate on this many workers")

	liveCmd := &cobra.Command{
		Use:   "live [directions]",
		Short: "animate runs in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	poleFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&svgPath, "svg", "", "write a space-time diagram of the run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLENGTH\tSPEED\tINC\tPOSITIONS\tDIRECTIONS")
			for _, name := range config.ListPresets() {
				p, err := config.GetPreset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n", name, p.PoleLength, p.Speed, p.TimeIncrement, pole.FormatPositions(p.Positions), p.Directions)
			}
			return w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario (yaml)",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "autoplay random start layouts",
		Args:  cobra.NoArgs,
		RunE:  runTrials,
	}
	poleFlags(trialsCmd)
	trialsCmd.Flags().IntVar(&numAnts, "ants", 5, "ants per layout")
	trialsCmd.Flags().IntVar(&numTrials, "trials", 20, "number of layouts")
	trialsCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	trialsCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 uses every CPU)")

	rootCmd.AddCommand(runCmd, autoplayCmd, liveCmd, listCmd, showCmd, presetsCmd, scenarioCmd, trialsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges, in increasing priority, defaults, preset, config file
// and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
		log.Printf("using preset %s", preset)
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		log.Printf("loaded config %s", configFile)
	}

	if cmd.Flags().Changed("length") {
		cfg.PoleLength = poleLength
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speed
	}
	if cmd.Flags().Changed("inc") {
		cfg.TimeIncrement = increment
	}
	if cmd.Flags().Changed("positions") {
		cfg.Positions = append([]int(nil), positions...)
		cfg.Directions = ""
	}

	if err := cfg.Params().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func directionsFor(cmd *cobra.Command, cfg *config.Config, args []string) ([]pole.Direction, error) {
	switch {
	case len(args) > 0:
		return pole.ParseDirections(args[0])
	case cmd.Flags().Changed("index"):
		if index < 0 || index >= 1<<len(cfg.Positions) {
			return nil, fmt.Errorf("%w: index %d out of range for %d ants", pole.ErrInvalidConfiguration, index, len(cfg.Positions))
		}
		return pole.IndexToDirections(index, len(cfg.Positions)), nil
	default:
		return cfg.InitialDirections()
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dirs, err := directionsFor(cmd, cfg, args)
	if err != nil {
		return err
	}

	tr := &pole.Trace{}
	var sink pole.ViewSink = tr
	var renderer *tui.LiveRenderer
	if trace {
		renderer = tui.NewLiveRenderer(os.Stdout, cfg.PoleLength, cfg.View.Width, frameRate)
		sink = pole.Tee(tr, renderer)
		renderer.Start()
		defer renderer.Stop()
	}

	d, err := driver.New(cfg.Params(), cfg.Positions, sink)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Printf("start %s %s", pole.FormatPositions(cfg.Positions), pole.FormatDirections(dirs))
	elapsed, err := d.Play(ctx, dirs)
	if err != nil {
		return err
	}

	fmt.Printf("positions:  %s\n", pole.FormatPositions(cfg.Positions))
	fmt.Printf("directions: %s (index %d)\n", pole.FormatDirections(dirs), pole.DirectionsToIndex(dirs))
	fmt.Printf("steps:      %d\n", len(tr.Frames))
	fmt.Printf("elapsed:    %d\n", elapsed)
	if first, ok := tr.FirstExit(cfg.Positions, cfg.PoleLength); ok {
		fmt.Printf("first exit: %d\n", first)
	}
	if predicted, err := pole.PassThroughElapsed(cfg.Params(), cfg.Positions, dirs); err == nil && predicted != elapsed {
		log.Printf("pass-through prediction %d differs from simulation %d", predicted, elapsed)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Params(), cfg.Positions, dirs, tr)
		if err != nil {
			return err
		}
		fmt.Printf("run id:     %s\n", runID)
	}
	return nil
}

func runAutoplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tDIRECTIONS\tELAPSED\tMAX\tMIN")
	var rec driver.Record
	printRow := func(o driver.Outcome) {
		rec.Observe(o.Elapsed)
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", o.Index, pole.FormatDirections(o.Directions), o.Elapsed, rec.Max, rec.Min)
	}

	var outcomes []driver.Outcome
	if workers > 1 {
		log.Printf("enumerating on %d workers", workers)
		outcomes, _, err = driver.Enumerate(ctx, cfg.Params(), cfg.Positions, workers)
		for _, o := range outcomes {
			printRow(o)
		}
	} else {
		var d *driver.Driver
		d, err = driver.New(cfg.Params(), cfg.Positions, nil)
		if err != nil {
			return err
		}
		outcomes, err = d.Autoplay(ctx, printRow)
	}
	if flushErr := w.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	elapsed := make([]int, len(outcomes))
	for i, o := range outcomes {
		elapsed[i] = o.Elapsed
	}
	sum := analysis.Summarize(elapsed)
	printSummary(sum, len(cfg.Positions))
	printHistogram(elapsed, cfg.TimeIncrement)
	plotElapsed(elapsed)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		session := make([]storage.SessionOutcome, len(outcomes))
		for i, o := range outcomes {
			session[i] = storage.SessionOutcome{Index: o.Index, Directions: pole.FormatDirections(o.Directions), Elapsed: o.Elapsed}
		}
		record := storage.RecordSummary{Min: sum.Min, Max: sum.Max, MinIndex: sum.MinIndex, MaxIndex: sum.MaxIndex}
		runID, err := st.SaveSession(cfg.Params(), cfg.Positions, session, record, sum.Metrics())
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func printSummary(sum analysis.Summary, n int) {
	fmt.Println()
	fmt.Printf("runs:   %d\n", sum.Runs)
	fmt.Printf("max:    %d (%s)\n", sum.Max, pole.FormatDirections(pole.IndexToDirections(sum.MaxIndex, n)))
	fmt.Printf("min:    %d (%s)\n", sum.Min, pole.FormatDirections(pole.IndexToDirections(sum.MinIndex, n)))
	fmt.Printf("mean:   %.3f\n", sum.Mean)
	fmt.Printf("stddev: %.3f\n", sum.StdDev)
	fmt.Printf("median: %.1f\n", sum.Median)
}

func printHistogram(elapsed []int, inc int) {
	start, counts := analysis.Histogram(elapsed, inc)
	fmt.Println()
	for i, c := range counts {
		if c == 0 {
			continue
		}
		fmt.Printf("%4d %s %d\n", start+i*inc, strings.Repeat("#", int(c)), int(c))
	}
}

func plotElapsed(elapsed []int) {
	if len(elapsed) < 2 {
		return
	}
	data := make([]float64, len(elapsed))
	for i, e := range elapsed {
		data[i] = float64(e)
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("elapsed by direction index"),
	))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dirs, err := directionsFor(cmd, cfg, args)
	if err != nil {
		return err
	}
	fps := cfg.View.FrameRate
	if cmd.Flags().Changed("fps") {
		fps = frameRate
	}

	m, err := viz.NewModel(cfg.Params(), cfg.Positions, dirs, viz.Options{
		FrameRate: fps,
		Width:     cfg.View.Width,
		Autostart: len(args) > 0,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tLENGTH\tSPEED\tINC\tPOSITIONS\tDIRECTIONS\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%d\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.PoleLength,
			run.Speed,
			run.TimeIncrement,
			pole.FormatPositions(run.Positions),
			run.Directions,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	switch meta.Kind {
	case storage.KindAutoplay:
		outcomes, err := st.LoadOutcomes(runID)
		if err != nil {
			return err
		}
		elapsed := make([]int, len(outcomes))
		for i, o := range outcomes {
			elapsed[i] = o.Elapsed
		}
		plotElapsed(elapsed)
	default:
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		for _, f := range frames {
			fmt.Printf("t=%4d %s\n", f.Time, tui.RenderPole(meta.PoleLength, tui.DefaultWidth, f.Positions, f.Directions))
		}
		if svgPath != "" {
			svg := export.WorldlinesToSVG(meta.PoleLength, meta.Positions, frames, 600, 400)
			if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", svgPath)
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	log.Printf("scenario %q: %d steps", sc.Name, len(sc.Steps))

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPOSITIONS\tRUNS\tMAX\tMIN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", r.Step, pole.FormatPositions(r.Config.Positions), len(r.Outcomes), r.Record.Max, r.Record.Min)
	}
	return w.Flush()
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if numAnts > driver.MaxAutoplayAnts {
		return fmt.Errorf("%w: %d", driver.ErrTooManyAnts, numAnts)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunRandomTrials(ctx, automation.RandomTrialConfig{
		Params:    cfg.Params(),
		NumAnts:   numAnts,
		NumTrials: numTrials,
		Seed:      seed,
		Workers:   workers,
	}, os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tPOSITIONS\tMIN\tMAX\tMEAN")
	maxes := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.2f\n", r.TrialID, pole.FormatPositions(r.Positions), r.Summary.Min, r.Summary.Max, r.Summary.Mean)
		maxes[i] = float64(r.Summary.Max)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(maxes) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(maxes, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("worst case per layout")))
	}
	return nil
}
