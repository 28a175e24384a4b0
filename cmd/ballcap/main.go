package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/soccerlab/ballcap/internal/cem"
	"github.com/soccerlab/ballcap/internal/checkpoint"
	"github.com/soccerlab/ballcap/internal/config"
	"github.com/soccerlab/ballcap/internal/soccer"
	"github.com/soccerlab/ballcap/internal/tui"
)

var (
	dataDir    string
	paramsFile string
	configFile string
	preset     string
	basisFuncs int
	samples    int
	iterations int
	elite      float64
	horizon    int
	evalHoriz  int
	seed       int64
	workers    int
	live       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ballcap",
		Short: "cross-entropy policy search for the ball capture task",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "checkpoint directory")
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "physical parameters file (yaml)")

	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "train a policy from scratch",
		RunE:  runTrain,
	}
	addTrainingFlags(trainCmd)

	resumeCmd := &cobra.Command{
		Use:   "resume [checkpoint]",
		Short: "resume training from a checkpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResume,
	}
	addTrainingFlags(resumeCmd)

	evalCmd := &cobra.Command{
		Use:   "eval [checkpoint]",
		Short: "evaluate a checkpoint on the fixed state sets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEval,
	}
	evalCmd.Flags().IntVar(&evalHoriz, "eval-horizon", config.DefaultEvalHorizon, "trajectory horizon")
	evalCmd.Flags().IntVar(&workers, "workers", 0, "scoring workers (0 = all cpus)")

	infoCmd := &cobra.Command{
		Use:   "info [checkpoint]",
		Short: "print checkpoint summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInfo,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list checkpoints",
		RunE:  runList,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [checkpoint]",
		Short: "plot score history",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list training presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(trainCmd, resumeCmd, evalCmd, infoCmd, listCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addTrainingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&basisFuncs, "basis", config.DefaultBasisFunctions, "number of basis functions")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "population size per iteration")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "iteration budget")
	cmd.Flags().Float64Var(&elite, "elite", config.DefaultEliteFraction, "elite fraction")
	cmd.Flags().IntVar(&horizon, "horizon", config.DefaultScoreHorizon, "scoring trajectory horizon")
	cmd.Flags().IntVar(&evalHoriz, "eval-horizon", config.DefaultEvalHorizon, "evaluation trajectory horizon")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().IntVar(&workers, "workers", 0, "scoring workers (0 = all cpus)")
	cmd.Flags().BoolVar(&live, "live", false, "show live training view")
}

// buildConfig layers preset, config file and changed CLI flags over the
// defaults, CLI flags winning.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("basis") {
		cfg.BasisFunctions = basisFuncs
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("elite") {
		cfg.EliteFraction = elite
	}
	if flags.Changed("horizon") {
		cfg.ScoreHorizon = horizon
	}
	if flags.Changed("eval-horizon") {
		cfg.EvalHorizon = evalHoriz
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Parent() != nil && cmd.Parent().PersistentFlags().Changed("data") {
		cfg.DataDir = dataDir
	} else if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return cfg, cfg.Validate()
}

func loadParams() (*soccer.Params, error) {
	if paramsFile == "" {
		return soccer.Default(), nil
	}
	return soccer.Load(paramsFile)
}

func toOptions(cfg *config.Config, showProgress bool) cem.Options {
	opts := cem.Options{
		BasisFunctions: cfg.BasisFunctions,
		Samples:        cfg.Samples,
		Iterations:     cfg.Iterations,
		EliteFraction:  cfg.EliteFraction,
		ScoreHorizon:   cfg.ScoreHorizon,
		EvalHorizon:    cfg.EvalHorizon,
		Seed:           cfg.Seed,
		Workers:        cfg.Workers,
	}
	if showProgress {
		total := cfg.Samples
		step := total / 10
		if step < 1 {
			step = 1
		}
		opts.Progress = func(done, total int) {
			if done%step == 0 || done == total {
				fmt.Printf("\r  scoring: %3d%%", 100*done/total)
			}
			if done == total {
				fmt.Println()
			}
		}
	}
	return opts
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	p, err := loadParams()
	if err != nil {
		return err
	}

	search := cem.New(p, toOptions(cfg, !live))
	fmt.Printf("training: %d basis functions, %d samples, %d discrete actions\n",
		cfg.BasisFunctions, cfg.Samples, p.NumActions())
	fmt.Printf("state sets: %d training, %d held-out\n", search.TrainStates(), search.TestStates())

	return runTraining(search, cfg)
}

func runResume(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	p, err := loadParams()
	if err != nil {
		return err
	}

	st := checkpoint.NewStore(cfg.DataDir)
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		if path, err = st.Latest(); err != nil {
			return err
		}
	}

	snap, err := checkpoint.Load(path, p.NumActions())
	if err != nil {
		return fmt.Errorf("cannot resume from %s: %w", path, err)
	}

	search, err := cem.FromSnapshot(p, snap, toOptions(cfg, !live))
	if err != nil {
		return fmt.Errorf("cannot resume from %s: %w", path, err)
	}

	fmt.Printf("resuming from %s at iteration %d\n", path, search.Iterations())
	return runTraining(search, cfg)
}

func runTraining(search *cem.Search, cfg *config.Config) error {
	st := checkpoint.NewStore(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	save := func() {
		if _, err := st.Save(search.Snapshot()); err != nil {
			fmt.Printf("warning: checkpoint save failed: %v\n", err)
		}
	}

	if live {
		reports := make(chan cem.IterationStats)
		done := make(chan error, 1)
		go func() {
			err := search.Run(ctx, func(s cem.IterationStats) {
				save()
				reports <- s
			})
			close(reports)
			done <- err
		}()

		if _, err := tea.NewProgram(tui.New(cfg.Iterations, reports, done)).Run(); err != nil {
			return err
		}
		return nil
	}

	err := search.Run(ctx, func(s cem.IterationStats) {
		fmt.Printf("iteration %d/%d  best %.2f  mean %.2f  train %.2f (bad %d/%d)  test %.2f (bad %d/%d)  %v\n",
			s.Iteration, cfg.Iterations, s.BestScore, s.MeanScore,
			s.TrainScore, s.TrainBad, s.TrainSize,
			s.TestScore, s.TestBad, s.TestSize,
			s.Elapsed.Round(time.Millisecond))
		save()
	})
	if err == context.Canceled {
		fmt.Printf("interrupted after %d iterations; resume with `ballcap resume`\n", search.Iterations())
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("training complete: %d iterations in %v\n", search.Iterations(), search.ComputeTime().Round(time.Second))
	return nil
}

func resolveCheckpoint(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return checkpoint.NewStore(dataDir).Latest()
}

func runEval(cmd *cobra.Command, args []string) error {
	p, err := loadParams()
	if err != nil {
		return err
	}
	path, err := resolveCheckpoint(args)
	if err != nil {
		return err
	}
	snap, err := checkpoint.Load(path, p.NumActions())
	if err != nil {
		return err
	}

	cfg := config.Default()
	cfg.EvalHorizon = evalHoriz
	cfg.Workers = workers
	search, err := cem.FromSnapshot(p, snap, toOptions(cfg, false))
	if err != nil {
		return err
	}

	train, test := search.EvaluatePerformance()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SET\tSTATES\tAVG SCORE\tBAD STATES")
	fmt.Fprintf(w, "training\t%d\t%.2f\t%d\n", train.States, train.Average, train.BadStates)
	fmt.Fprintf(w, "held-out\t%d\t%.2f\t%d\n", test.States, test.Average, test.BadStates)
	return w.Flush()
}

func runInfo(cmd *cobra.Command, args []string) error {
	path, err := resolveCheckpoint(args)
	if err != nil {
		return err
	}
	snap, err := checkpoint.Load(path, 0)
	if err != nil {
		return err
	}

	fmt.Printf("checkpoint: %s\n", path)
	fmt.Printf("saved: %s\n\n", snap.SavedAt.Format("2006-01-02 15:04:05"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "basis functions\t%d\n", snap.BasisFunctions)
	fmt.Fprintf(w, "discrete actions\t%d\n", snap.Actions)
	fmt.Fprintf(w, "samples\t%d\n", snap.Samples)
	fmt.Fprintf(w, "elite fraction\t%.3f\n", snap.EliteFraction)
	fmt.Fprintf(w, "iterations\t%d\n", snap.Iterations)
	fmt.Fprintf(w, "compute time\t%v\n", time.Duration(snap.ComputeTimeNS).Round(time.Second))
	if n := len(snap.History); n > 0 {
		last := snap.History[n-1]
		fmt.Fprintf(w, "train score\t%.2f (bad %d)\n", last.TrainScore, last.TrainBad)
		fmt.Fprintf(w, "test score\t%.2f (bad %d)\n", last.TestScore, last.TestBad)
	}
	return w.Flush()
}

func runList(cmd *cobra.Command, args []string) error {
	metas, err := checkpoint.NewStore(dataDir).List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no checkpoints found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSAVED\tBASIS\tSAMPLES\tITER\tTRAIN\tTEST")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.2f\t%.2f\n",
			m.File, m.SavedAt.Format("2006-01-02 15:04:05"),
			m.Basis, m.Samples, m.Iterations, m.TrainScore, m.TestScore)
	}
	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	path, err := resolveCheckpoint(args)
	if err != nil {
		return err
	}
	snap, err := checkpoint.Load(path, 0)
	if err != nil {
		return err
	}
	if len(snap.History) < 2 {
		return fmt.Errorf("not enough history to plot (%d iterations)", len(snap.History))
	}

	train := make([]float64, len(snap.History))
	test := make([]float64, len(snap.History))
	for i, h := range snap.History {
		train[i] = h.TrainScore
		test[i] = h.TestScore
	}

	fmt.Printf("checkpoint: %s (%d iterations)\n\n", path, snap.Iterations)
	fmt.Println(asciigraph.Plot(train,
		asciigraph.Height(10), asciigraph.Width(70),
		asciigraph.Caption("training set score")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(test,
		asciigraph.Height(10), asciigraph.Width(70),
		asciigraph.Caption("held-out set score")))
	return nil
}
