package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/evolve/genetic"
	"github.com/lixenwraith/evolve/status"
)

func smallConfig() Config {
	return Config{
		Config: genetic.Config{
			Alphabet:         2,
			Length:           8,
			PopulationSize:   50,
			BreedingPoolSize: 10,
			MutationRate:     40,
			SuccessLevel:     0.5,
			MaxGenerations:   100,
		},
		Experiments: 6,
		Workers:     1,
		Seed:        11,
	}
}

// singleSymbolConfig makes every individual equal to the reference from the start
func singleSymbolConfig() Config {
	cfg := smallConfig()
	cfg.Alphabet = 1
	return cfg
}

func TestRunner_DeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) *Summary {
		cfg := smallConfig()
		cfg.Workers = workers
		r, err := New(cfg)
		require.NoError(t, err)
		summary, err := r.Run(context.Background())
		require.NoError(t, err)
		return summary
	}

	serial := run(1)
	parallel := run(4)

	require.Equal(t, serial.Reference, parallel.Reference)
	require.Len(t, parallel.Results, len(serial.Results))
	for i := range serial.Results {
		a, b := serial.Results[i], parallel.Results[i]
		require.Equal(t, i, b.Index)
		require.Equal(t, a.Succeeded, b.Succeeded, "experiment %d", i)
		require.Equal(t, a.Generation, b.Generation, "experiment %d", i)
		require.Equal(t, a.Evaluated, b.Evaluated, "experiment %d", i)
		require.Equal(t, a.Best, b.Best, "experiment %d", i)
		require.Equal(t, a.FinalCounts, b.FinalCounts, "experiment %d", i)
	}
	require.Equal(t, serial.Successes, parallel.Successes)
	require.Equal(t, serial.TotalGenerations, parallel.TotalGenerations)
	require.Equal(t, serial.FinalBinTotals, parallel.FinalBinTotals)
}

func TestRunner_SummaryTotals(t *testing.T) {
	cfg := smallConfig()
	r, err := New(cfg)
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, cfg.Experiments)
	require.Len(t, summary.Reference, cfg.Length)
	require.NotEmpty(t, summary.RunID)
	require.Equal(t, cfg.Seed, summary.Seed)

	successes, total, population := 0, 0, 0
	for _, res := range summary.Results {
		if gen, ok := res.SuccessGeneration(); ok {
			successes++
			total += gen
			require.Equal(t, gen+1, res.Evaluated)
		} else {
			require.Equal(t, cfg.MaxGenerations+1, res.Evaluated)
		}
		require.Len(t, res.FinalCounts, cfg.Length+1)
		require.Len(t, res.Best, cfg.Length)
	}
	for _, n := range summary.FinalBinTotals {
		population += n
	}

	require.Equal(t, successes, summary.Successes)
	require.Equal(t, total, summary.TotalGenerations)
	require.Equal(t, cfg.Experiments*cfg.PopulationSize, population)
}

func TestRunner_SuccessAtGenerationZeroCounts(t *testing.T) {
	cfg := singleSymbolConfig()
	r, err := New(cfg)
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("A", cfg.Length), summary.Reference)
	require.Equal(t, cfg.Experiments, summary.Successes)
	require.Equal(t, 0, summary.TotalGenerations)

	avg, ok := summary.AverageGenerations()
	require.True(t, ok)
	require.Zero(t, avg)

	averages := summary.FinalBinAverages()
	require.Equal(t, float64(cfg.PopulationSize), averages[cfg.Length])
}

func TestRunner_NoSuccessHasNoAverage(t *testing.T) {
	cfg := smallConfig()
	cfg.Reference = "AAAAAAAA"
	cfg.MaxGenerations = 0
	cfg.SuccessLevel = 1
	cfg.Experiments = 2

	r, err := New(cfg)
	require.NoError(t, err)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	// A random population of 50 over 2^8 genomes cannot be all exact matches
	require.Zero(t, summary.Successes)
	_, ok := summary.AverageGenerations()
	require.False(t, ok)
	require.Nil(t, summary.DTO().AverageGeneration)
}

func TestRunner_ConfiguredReference(t *testing.T) {
	cfg := smallConfig()
	cfg.Reference = "ABABABAB"
	r, err := New(cfg)
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ABABABAB", summary.Reference)
}

func TestNew_RejectsBadReference(t *testing.T) {
	cfg := smallConfig()
	cfg.Reference = "ABCABCAB"
	_, err := New(cfg)
	require.ErrorIs(t, err, genetic.ErrInvalidSymbol)

	cfg.Reference = "ABAB"
	_, err = New(cfg)
	require.ErrorIs(t, err, genetic.ErrLengthMismatch)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Experiments = 0
	_, err := New(cfg)
	require.ErrorIs(t, err, genetic.ErrInvalidConfig)

	cfg = smallConfig()
	cfg.BreedingPoolSize = cfg.PopulationSize + 1
	_, err = New(cfg)
	require.ErrorIs(t, err, genetic.ErrInvalidConfig)
	require.Contains(t, err.Error(), "BreedingPoolSize")
}

func TestRunner_Cancelled(t *testing.T) {
	reg := status.NewRegistry()
	r, err := New(smallConfig(), WithStatus(reg))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	require.Empty(t, summary.Results)
	require.Equal(t, status.PhaseCancelled, reg.Strings.Get(status.KeyPhase).Load())
}

func TestRunner_StatusAndProgress(t *testing.T) {
	cfg := singleSymbolConfig()
	cfg.Workers = 3
	reg := status.NewRegistry()

	var done, totals []int
	r, err := New(cfg, WithStatus(reg), WithProgress(func(_ ExperimentResult, d, total int) {
		done = append(done, d)
		totals = append(totals, total)
	}))
	require.NoError(t, err)
	require.Same(t, reg, r.Status())

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, done, cfg.Experiments)
	for i, d := range done {
		require.Equal(t, i+1, d)
		require.Equal(t, cfg.Experiments, totals[i])
	}

	snap := reg.Snapshot()
	require.Equal(t, status.PhaseDone, snap.Strings[status.KeyPhase])
	require.Equal(t, summary.RunID, snap.Strings[status.KeyRunID])
	require.Equal(t, int64(cfg.Experiments), snap.Ints[status.KeyExperimentsDone])
	require.Equal(t, int64(cfg.Experiments), snap.Ints[status.KeySuccesses])
	require.Equal(t, int64(cfg.Experiments), snap.Ints[status.KeyGenerations])
	require.Zero(t, snap.Ints[status.KeyExperimentsActive])
}

func TestRunner_StatusKeepsLongReference(t *testing.T) {
	cfg := singleSymbolConfig()
	cfg.Length = 80
	cfg.Experiments = 1
	cfg.Reference = strings.Repeat("A", cfg.Length)
	reg := status.NewRegistry()

	r, err := New(cfg, WithStatus(reg))
	require.NoError(t, err)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Reference, 80)
	require.Equal(t, summary.Reference, reg.Snapshot().Strings[status.KeyReference])
}

func TestRunner_StatusAverageMatchesSummary(t *testing.T) {
	cfg := smallConfig()
	cfg.Workers = 2
	reg := status.NewRegistry()

	r, err := New(cfg, WithStatus(reg))
	require.NoError(t, err)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	got := reg.Snapshot().Floats[status.KeyAverageGens]
	if avg, ok := summary.AverageGenerations(); ok {
		require.InDelta(t, avg, got, 1e-9)
	} else {
		require.Zero(t, got)
	}
}

func TestRunner_Metrics(t *testing.T) {
	cfg := singleSymbolConfig()
	m := NewMetrics(prometheus.NewRegistry())

	r, err := New(cfg, WithMetrics(m))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, float64(cfg.Experiments), testutil.ToFloat64(m.experiments.WithLabelValues(resultSucceeded)))
	require.Zero(t, testutil.ToFloat64(m.experiments.WithLabelValues(resultExhausted)))
	require.Equal(t, float64(cfg.Experiments), testutil.ToFloat64(m.evaluated))
	require.Equal(t, float64(cfg.PopulationSize), testutil.ToFloat64(m.topCount))
}

func TestSummary_DTO(t *testing.T) {
	cfg := singleSymbolConfig()
	cfg.Experiments = 3
	r, err := New(cfg)
	require.NoError(t, err)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	dto := summary.DTO()
	require.Equal(t, summary.RunID, dto.ID)
	require.Equal(t, cfg.Config, dto.Config)
	require.Len(t, dto.Experiments, 3)
	require.NotNil(t, dto.AverageGeneration)
	for _, e := range dto.Experiments {
		require.True(t, e.Succeeded())
		require.Equal(t, 0, *e.Generation)
		require.Equal(t, 1.0, e.Metrics["succeeded"])
	}
	require.Equal(t, 3, dto.Header().Successes)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := "alphabet: 3\nlength: 8\nexperiments: 5\nworkers: 2\nseed: 99\nreference: ABCABCAB\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, 3, cfg.Alphabet)
	require.Equal(t, 8, cfg.Length)
	require.Equal(t, 5, cfg.Experiments)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, uint64(99), cfg.Seed)
	require.Equal(t, "ABCABCAB", cfg.Reference)

	defaults := DefaultConfig()
	require.Equal(t, defaults.PopulationSize, cfg.PopulationSize)
	require.Equal(t, defaults.SuccessLevel, cfg.SuccessLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("breeding_pool_size: 5000\n"), 0644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.ErrorIs(t, cfg.Validate(), genetic.ErrInvalidConfig)
}
