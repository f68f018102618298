package persistence

import (
	"time"

	"github.com/lixenwraith/evolve/genetic"
)

// RunDTO is the serializable record of one set of experiments
type RunDTO struct {
	ID          string          `yaml:"id"`
	StartedAt   time.Time       `yaml:"started_at"`
	Elapsed     time.Duration   `yaml:"elapsed"`
	Seed        uint64          `yaml:"seed"`
	Reference   string          `yaml:"reference"`
	Config      genetic.Config  `yaml:"config"`
	Experiments []ExperimentDTO `yaml:"experiments"`

	Successes         int       `yaml:"successes"`
	TotalGenerations  int       `yaml:"total_generations"`
	AverageGeneration *float64  `yaml:"average_generation,omitempty"`
	FinalBinTotals    []int     `yaml:"final_bin_totals"`
	FinalBinAverages  []float64 `yaml:"final_bin_averages"`
}

// ExperimentDTO is a serializable experiment result
// Generation is absent when the experiment never reached the success level
type ExperimentDTO struct {
	Index       int                `yaml:"index"`
	Generation  *int               `yaml:"generation,omitempty"`
	Evaluated   int                `yaml:"evaluated"`
	Best        string             `yaml:"best"`
	BestScore   int                `yaml:"best_score"`
	FinalCounts []int              `yaml:"final_counts"`
	Metrics     map[string]float64 `yaml:"metrics,omitempty"`
}

// Succeeded reports whether the experiment reached the success level
func (e ExperimentDTO) Succeeded() bool {
	return e.Generation != nil
}

// Header is the short form shown in run listings
type Header struct {
	ID          string    `yaml:"id"`
	StartedAt   time.Time `yaml:"started_at"`
	Experiments int       `yaml:"experiments"`
	Successes   int       `yaml:"successes"`
}

// Header extracts the listing form of the run
func (dto RunDTO) Header() Header {
	return Header{
		ID:          dto.ID,
		StartedAt:   dto.StartedAt,
		Experiments: len(dto.Experiments),
		Successes:   dto.Successes,
	}
}
