package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/evolve/audio"
	"github.com/lixenwraith/evolve/genetic/persistence"
	"github.com/lixenwraith/evolve/monitor"
	"github.com/lixenwraith/evolve/parameter"
	"github.com/lixenwraith/evolve/runner"
)

// app carries state shared by all commands
type app struct {
	debug   bool
	logger  *slog.Logger
	logFile *os.File
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:           "evolve",
		Short:         "Repeated-trial genetic search for a hidden reference string",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger, a.logFile = setupLogging(a.debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logFile != nil {
				a.logFile.Close()
			}
		},
	}
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "write debug logs to "+logDir+"/"+logFileName)

	root.AddCommand(newRunCmd(a), newHistoryCmd(a), newShowCmd(a))
	return root
}

// runFlags are the run command's options; overrides apply only when set on the command line
type runFlags struct {
	configPath  string
	reportDir   string
	archiveDir  string
	metricsAddr string
	live        bool
	chime       bool
	volume      float64
	overrides   runner.Config
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{overrides: runner.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a set of experiments and report how fast they converge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), f)
			if err != nil {
				return err
			}
			return a.run(cmd, cfg, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&f.reportDir, "report", "", "directory for the YAML run report, e.g. "+parameter.GeneticReportPath+" (empty disables)")
	flags.StringVar(&f.archiveDir, "archive", parameter.GeneticArchivePath, "run archive directory (empty disables)")
	flags.StringVar(&f.metricsAddr, "metrics-addr", "", "serve /metrics and /status on this address")
	flags.BoolVar(&f.live, "live", false, "show the live monitor (default: when stdout is a terminal)")
	flags.BoolVar(&f.chime, "chime", false, "play a chime when the run ends")
	flags.Float64Var(&f.volume, "volume", 0.5, "chime volume 0..1")

	o := &f.overrides
	flags.IntVar(&o.Experiments, "experiments", o.Experiments, "number of independent experiments")
	flags.IntVar(&o.Workers, "workers", o.Workers, "experiments run concurrently")
	flags.Uint64Var(&o.Seed, "seed", o.Seed, "random seed (0 picks one)")
	flags.StringVar(&o.Reference, "reference", o.Reference, "fixed reference genome (default: drawn from the seed)")
	flags.IntVar(&o.Alphabet, "alphabet", o.Alphabet, "symbols per position, starting at 'A'")
	flags.IntVar(&o.Length, "length", o.Length, "genome length")
	flags.IntVar(&o.PopulationSize, "population", o.PopulationSize, "individuals per generation")
	flags.IntVar(&o.BreedingPoolSize, "pool", o.BreedingPoolSize, "individuals admitted for breeding")
	flags.IntVar(&o.MutationRate, "mutation", o.MutationRate, "one mutation per N positions (0 disables)")
	flags.Float64Var(&o.SuccessLevel, "success", o.SuccessLevel, "fraction of exact matches that ends an experiment")
	flags.IntVar(&o.MaxGenerations, "max-generations", o.MaxGenerations, "breeding rounds per experiment")

	return cmd
}

// resolveConfig layers defaults, the config file and explicitly set flags
func resolveConfig(flags *pflag.FlagSet, f *runFlags) (runner.Config, error) {
	cfg := runner.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = runner.LoadConfig(f.configPath); err != nil {
			return cfg, err
		}
	}

	o := f.overrides
	apply := map[string]func(){
		"experiments":     func() { cfg.Experiments = o.Experiments },
		"workers":         func() { cfg.Workers = o.Workers },
		"seed":            func() { cfg.Seed = o.Seed },
		"reference":       func() { cfg.Reference = o.Reference },
		"alphabet":        func() { cfg.Alphabet = o.Alphabet },
		"length":          func() { cfg.Length = o.Length },
		"population":      func() { cfg.PopulationSize = o.PopulationSize },
		"pool":            func() { cfg.BreedingPoolSize = o.BreedingPoolSize },
		"mutation":        func() { cfg.MutationRate = o.MutationRate },
		"success":         func() { cfg.SuccessLevel = o.SuccessLevel },
		"max-generations": func() { cfg.MaxGenerations = o.MaxGenerations },
	}
	for name, fn := range apply {
		if flags.Changed(name) {
			fn()
		}
	}

	return cfg, cfg.Validate()
}

func (a *app) run(cmd *cobra.Command, cfg runner.Config, f *runFlags) error {
	out := cmd.OutOrStdout()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	live := f.live
	if !cmd.Flags().Changed("live") {
		live = isTerminal(out)
	}

	opts := []runner.Option{runner.WithLogger(a.logger)}
	if !live {
		opts = append(opts, runner.WithProgress(func(result runner.ExperimentResult, done, total int) {
			printProgress(out, result, done, total)
		}))
	}

	var reg *prometheus.Registry
	if f.metricsAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, runner.WithMetrics(runner.NewMetrics(reg)))
	}

	r, err := runner.New(cfg, opts...)
	if err != nil {
		return err
	}

	if reg != nil {
		stop, err := serveMetrics(f.metricsAddr, newRouter(reg, r.Status()), a.logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	stopMonitor := func() {}
	if live {
		stopMonitor = a.startMonitor(r, cancel)
	}

	summary, runErr := r.Run(ctx)
	stopMonitor()

	if len(summary.Results) == 0 {
		return runErr
	}

	dto := summary.DTO()
	printReport(out, dto)

	if f.archiveDir != "" {
		if err := archiveRun(f.archiveDir, dto, a.logger); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nArchived run %s\n", dto.ID)
	}
	if f.reportDir != "" {
		path, err := persistence.NewManager(f.reportDir).Save(dto)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Report written to %s\n", path)
	}

	if f.chime {
		a.playChime(cmd.Context(), f.volume, summary.Successes > 0)
	}

	if runErr != nil {
		return fmt.Errorf("run stopped after %d of %d experiments: %w", len(summary.Results), cfg.Experiments, runErr)
	}
	return nil
}

// startMonitor takes over the terminal until the returned function is called
// Falls back to plain output when no screen is available
func (a *app) startMonitor(r *runner.Runner, cancel context.CancelFunc) func() {
	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		a.logger.Warn("live monitor unavailable", "error", err)
		return func() {}
	}

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.New(screen, r.Status(), cancel).Run(ctx)
	}()

	return func() {
		stop()
		<-done
		screen.Fini()
	}
}

func (a *app) playChime(ctx context.Context, volume float64, succeeded bool) {
	player := audio.NewPlayer(volume)
	if err := player.Initialize(); err != nil {
		a.logger.Warn("audio unavailable", "error", err)
		return
	}
	defer player.Close()
	player.Announce(ctx, succeeded)
}

func archiveRun(dir string, dto persistence.RunDTO, logger *slog.Logger) error {
	archive, err := persistence.OpenArchive(dir, logger)
	if err != nil {
		return err
	}
	defer archive.Close()
	return archive.SaveRun(dto)
}

func newHistoryCmd(a *app) *cobra.Command {
	var archiveDir string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !persistence.ArchiveExists(archiveDir) {
				printHistory(cmd.OutOrStdout(), nil)
				return nil
			}
			archive, err := persistence.OpenArchive(archiveDir, a.logger)
			if err != nil {
				return err
			}
			defer archive.Close()

			headers, err := archive.ListRuns()
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), headers)
			return nil
		},
	}
	cmd.Flags().StringVar(&archiveDir, "archive", parameter.GeneticArchivePath, "run archive directory")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var archiveDir, reportDir string
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dto, err := loadRun(args[0], archiveDir, reportDir, a.logger)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), dto)
			return nil
		},
	}
	cmd.Flags().StringVar(&archiveDir, "archive", parameter.GeneticArchivePath, "run archive directory")
	cmd.Flags().StringVar(&reportDir, "report", parameter.GeneticReportPath, "also look for YAML reports in this directory")
	return cmd
}

// loadRun looks the run up in the archive, then among YAML reports
// Neither location is created when missing
func loadRun(id, archiveDir, reportDir string, logger *slog.Logger) (persistence.RunDTO, error) {
	if persistence.ArchiveExists(archiveDir) {
		archive, err := persistence.OpenArchive(archiveDir, logger)
		if err != nil {
			return persistence.RunDTO{}, err
		}
		dto, err := archive.LoadRun(id)
		archive.Close()
		if !errors.Is(err, persistence.ErrRunNotFound) {
			return dto, err
		}
	}

	if reports := persistence.NewManager(reportDir); reportDir != "" && reports.Exists(id) {
		return reports.Load(id)
	}
	return persistence.RunDTO{}, fmt.Errorf("%s: %w", id, persistence.ErrRunNotFound)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
