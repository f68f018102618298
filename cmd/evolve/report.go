package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/lixenwraith/evolve/genetic/persistence"
	"github.com/lixenwraith/evolve/genetic/tracking"
	"github.com/lixenwraith/evolve/runner"
)

func printProgress(w io.Writer, result runner.ExperimentResult, done, total int) {
	if gen, ok := result.SuccessGeneration(); ok {
		fmt.Fprintf(w, "[%d/%d] experiment %d: success at generation %d\n", done, total, result.Index+1, gen)
		return
	}
	fmt.Fprintf(w, "[%d/%d] experiment %d: no success after %d generations (best %s, score %d, peak %.0f exact)\n",
		done, total, result.Index+1, result.Evaluated, result.Best, result.BestScore,
		result.Metrics.Get(tracking.MetricPeakTopCount, 0))
}

func printReport(w io.Writer, run persistence.RunDTO) {
	cfg := run.Config
	fmt.Fprintf(w, "\nRun %s  seed %d  started %s  elapsed %s\n",
		run.ID, run.Seed, run.StartedAt.Format(time.DateTime), run.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Reference %s  (alphabet %d, population %d, pool %d, mutation %s, success level %.2f, max %d generations)\n",
		run.Reference, cfg.Alphabet, cfg.PopulationSize, cfg.BreedingPoolSize,
		mutationLabel(cfg.MutationRate), cfg.SuccessLevel, cfg.MaxGenerations)

	fmt.Fprintln(w, "\n-- AVERAGE SUCCESS TIME ---")
	fmt.Fprintf(w, "Successful evolution achieved %d of %d times\n", run.Successes, len(run.Experiments))
	fmt.Fprintf(w, "Total time count: %d\n", run.TotalGenerations)
	if run.AverageGeneration != nil {
		fmt.Fprintf(w, "Average generations to success: %0.2f\n", *run.AverageGeneration)
	} else {
		fmt.Fprintln(w, "No experiment reached the success level")
	}

	fmt.Fprintln(w, "\n-- FINAL FITNESS DISTRIBUTION ---")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "score\taverage\t")
	for score := len(run.FinalBinAverages) - 1; score >= 0; score-- {
		fmt.Fprintf(tw, "%d\t%.2f\t\n", score, run.FinalBinAverages[score])
	}
	tw.Flush()
}

func printHistory(w io.Writer, headers []persistence.Header) {
	if len(headers) == 0 {
		fmt.Fprintln(w, "no archived runs")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tEXPERIMENTS\tSUCCEEDED")
	for _, h := range headers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", h.ID, h.StartedAt.Format(time.DateTime), h.Experiments, h.Successes)
	}
	tw.Flush()
}

func mutationLabel(rate int) string {
	if rate == 0 {
		return "off"
	}
	return fmt.Sprintf("1/%d", rate)
}
