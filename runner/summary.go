package runner

import (
	"time"

	"github.com/lixenwraith/evolve/genetic/persistence"
	"github.com/lixenwraith/evolve/genetic/tracking"
)

// ExperimentResult is the outcome of one trial
type ExperimentResult struct {
	Index int
	// Succeeded reports whether the success level was reached; Generation is meaningful only then
	Succeeded  bool
	Generation int
	Evaluated  int

	Best        string
	BestScore   int
	FinalCounts []int
	Metrics     tracking.MetricBundle
	Elapsed     time.Duration
}

// SuccessGeneration returns the success generation and whether there was one
func (r ExperimentResult) SuccessGeneration() (int, bool) {
	if !r.Succeeded {
		return 0, false
	}
	return r.Generation, true
}

// Summary aggregates the finished experiments of a run
type Summary struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Seed      uint64
	Reference string
	Config    Config

	// Results holds finished experiments in index order
	Results []ExperimentResult

	Successes        int
	TotalGenerations int
	// FinalBinTotals sums the final bin counts of every experiment, indexed by score
	FinalBinTotals []int
}

func newSummary(cfg Config) *Summary {
	return &Summary{
		Config:         cfg,
		Results:        make([]ExperimentResult, 0, cfg.Experiments),
		FinalBinTotals: make([]int, cfg.Length+1),
	}
}

func (s *Summary) add(result ExperimentResult) {
	s.Results = append(s.Results, result)
	if gen, ok := result.SuccessGeneration(); ok {
		s.Successes++
		s.TotalGenerations += gen
	}
	for score, n := range result.FinalCounts {
		s.FinalBinTotals[score] += n
	}
}

// AverageGenerations is the mean success generation over successful experiments
// ok is false when no experiment succeeded
func (s *Summary) AverageGenerations() (avg float64, ok bool) {
	if s.Successes == 0 {
		return 0, false
	}
	return float64(s.TotalGenerations) / float64(s.Successes), true
}

// FinalBinAverages is the average final population per score across experiments
func (s *Summary) FinalBinAverages() []float64 {
	avgs := make([]float64, len(s.FinalBinTotals))
	if len(s.Results) == 0 {
		return avgs
	}
	for score, total := range s.FinalBinTotals {
		avgs[score] = float64(total) / float64(len(s.Results))
	}
	return avgs
}

// DTO converts the summary into its persisted form
func (s *Summary) DTO() persistence.RunDTO {
	dto := persistence.RunDTO{
		ID:               s.RunID,
		StartedAt:        s.StartedAt,
		Elapsed:          s.Elapsed,
		Seed:             s.Seed,
		Reference:        s.Reference,
		Config:           s.Config.Config,
		Experiments:      make([]persistence.ExperimentDTO, len(s.Results)),
		Successes:        s.Successes,
		TotalGenerations: s.TotalGenerations,
		FinalBinTotals:   s.FinalBinTotals,
		FinalBinAverages: s.FinalBinAverages(),
	}
	if avg, ok := s.AverageGenerations(); ok {
		dto.AverageGeneration = &avg
	}

	for i, r := range s.Results {
		e := persistence.ExperimentDTO{
			Index:       r.Index,
			Evaluated:   r.Evaluated,
			Best:        r.Best,
			BestScore:   r.BestScore,
			FinalCounts: r.FinalCounts,
			Metrics:     r.Metrics,
		}
		if gen, ok := r.SuccessGeneration(); ok {
			e.Generation = &gen
		}
		dto.Experiments[i] = e
	}
	return dto
}
