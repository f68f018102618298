// Package runner executes a set of independent experiments against one reference genome
// and aggregates their outcomes
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/evolve/genetic"
	"github.com/lixenwraith/evolve/genetic/tracking"
	"github.com/lixenwraith/evolve/status"
)

// ProgressFunc is called once per finished experiment, serialized
type ProgressFunc func(result ExperimentResult, done, total int)

// Runner orchestrates the experiments of one run
type Runner struct {
	config    Config
	alphabet  genetic.Alphabet
	reference genetic.Individual

	logger     *slog.Logger
	status     *status.Registry
	metrics    *Metrics
	progress   ProgressFunc
	collectors *tracking.CollectorPool
}

// Option customizes a Runner
type Option func(*Runner)

// WithLogger sets the run logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithStatus publishes progress to a status registry
func WithStatus(s *status.Registry) Option {
	return func(r *Runner) { r.status = s }
}

// WithMetrics exports progress to Prometheus
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithProgress registers a per-experiment callback
func WithProgress(f ProgressFunc) Option {
	return func(r *Runner) { r.progress = f }
}

// New validates the configuration and prepares a run
// When no reference is configured, one is drawn from the seed at Run time
func New(config Config, opts ...Option) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	alphabet, err := genetic.NewAlphabet(config.Alphabet)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		config:     config,
		alphabet:   alphabet,
		logger:     slog.New(slog.DiscardHandler),
		status:     status.NewRegistry(),
		collectors: tracking.NewCollectorPool(config.Workers),
	}

	if config.Reference != "" {
		codec := genetic.TextCodec{Alphabet: alphabet, Length: config.Length}
		if r.reference, err = codec.Encode(config.Reference); err != nil {
			return nil, fmt.Errorf("reference %q: %w", config.Reference, err)
		}
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Status returns the registry the runner publishes to
func (r *Runner) Status() *status.Registry {
	return r.status
}

// Run executes all experiments
// On failure or cancellation the summary of the experiments that did finish is returned with the error
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	cfg := r.config
	if cfg.Seed == 0 {
		cfg.Seed = randomSeed()
	}

	reference := r.reference
	if reference == nil {
		reference = genetic.NewFactory(r.alphabet, cfg.Length, rand.New(rand.NewPCG(cfg.Seed, 0))).RandomIndividual()
	}

	summary := newSummary(cfg)
	summary.RunID = uuid.NewString()
	summary.StartedAt = time.Now()
	summary.Seed = cfg.Seed
	summary.Reference = reference.String()

	logger := r.logger.With("run", summary.RunID)
	logger.Info("run started",
		"experiments", cfg.Experiments,
		"workers", cfg.Workers,
		"seed", cfg.Seed,
		"reference", summary.Reference,
		"population", cfg.PopulationSize,
		"pool", cfg.BreedingPoolSize,
		"mutation_rate", cfg.MutationRate)

	r.status.Strings.Get(status.KeyRunID).Store(summary.RunID)
	r.status.Strings.Get(status.KeyReference).Store(summary.Reference)
	r.status.Ints.Get(status.KeyExperimentsTotal).Store(int64(cfg.Experiments))
	r.status.Ints.Get(status.KeyExperimentsDone).Store(0)
	r.status.Ints.Get(status.KeySuccesses).Store(0)
	r.status.Ints.Get(status.KeyGenerations).Store(0)
	r.status.Floats.Get(status.KeyAverageGens).Set(0)
	r.status.Strings.Get(status.KeyPhase).Store(status.PhaseRunning)

	var (
		mu       sync.Mutex
		finished []ExperimentResult
	)
	record := func(result ExperimentResult) {
		mu.Lock()
		defer mu.Unlock()

		finished = append(finished, result)
		r.publish(result, len(finished))
		if r.progress != nil {
			r.progress(result, len(finished), cfg.Experiments)
		}
		logger.Debug("experiment finished",
			"index", result.Index,
			"succeeded", result.Succeeded,
			"generation", result.Generation,
			"evaluated", result.Evaluated,
			"elapsed", result.Elapsed)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Experiments; i++ {
		g.Go(func() error {
			result, err := r.runExperiment(gctx, i, reference, cfg.Seed)
			if err != nil {
				return err
			}
			record(result)
			return nil
		})
	}
	err := g.Wait()

	sort.Slice(finished, func(a, b int) bool { return finished[a].Index < finished[b].Index })
	for _, result := range finished {
		summary.add(result)
	}
	summary.Elapsed = time.Since(summary.StartedAt)

	switch {
	case err == nil:
		r.status.Strings.Get(status.KeyPhase).Store(status.PhaseDone)
		logger.Info("run finished",
			"successes", summary.Successes,
			"total_generations", summary.TotalGenerations,
			"elapsed", summary.Elapsed)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		r.status.Strings.Get(status.KeyPhase).Store(status.PhaseCancelled)
		logger.Warn("run cancelled", "finished", len(summary.Results), "error", err)
	default:
		r.status.Strings.Get(status.KeyPhase).Store(status.PhaseFailed)
		logger.Error("run failed", "finished", len(summary.Results), "error", err)
	}
	return summary, err
}

// runExperiment evolves one population on its own random stream
func (r *Runner) runExperiment(ctx context.Context, index int, reference genetic.Individual, seed uint64) (ExperimentResult, error) {
	collector := r.collectors.Acquire()
	defer r.collectors.Release(collector)

	active := r.status.Ints.Get(status.KeyExperimentsActive)
	active.Add(1)
	defer active.Add(-1)

	observe := func(stats genetic.GenerationStats, _ genetic.Population) {
		collector.Collect(tracking.FromStats(stats))
		r.status.Ints.Get(status.KeyGenerations).Add(1)
		r.status.Ints.Get(status.KeyGeneration).Store(int64(stats.Generation))
		r.status.Ints.Get(status.KeyTopCount).Store(int64(stats.TopCount))
		r.status.Ints.Get(status.KeyBestScore).Store(int64(stats.BestScore))
		r.status.Floats.Get(status.KeyMeanScore).Set(stats.MeanScore)
		r.metrics.observeGeneration(stats.TopCount)
	}

	rng := rand.New(rand.NewPCG(seed, uint64(index)+1))
	engine, err := genetic.NewEngine(r.config.Config, reference, rng, genetic.WithObserver(observe))
	if err != nil {
		return ExperimentResult{}, fmt.Errorf("experiment %d: %w", index, err)
	}

	start := time.Now()
	outcome, err := engine.Run(ctx)
	if err != nil {
		return ExperimentResult{}, fmt.Errorf("experiment %d: %w", index, err)
	}

	best, bestScore, err := outcome.Best()
	if err != nil {
		return ExperimentResult{}, fmt.Errorf("experiment %d: %w", index, err)
	}

	succeeded := 0.0
	if outcome.Succeeded {
		succeeded = 1
	}

	return ExperimentResult{
		Index:       index,
		Succeeded:   outcome.Succeeded,
		Generation:  outcome.Generation,
		Evaluated:   outcome.Evaluated,
		Best:        best.String(),
		BestScore:   bestScore,
		FinalCounts: outcome.Bins.Counts(),
		Metrics:     collector.Finalize(tracking.MetricBundle{tracking.MetricSucceeded: succeeded}),
		Elapsed:     time.Since(start),
	}, nil
}

// publish mirrors a finished experiment onto the status board and metrics
// Called with the record lock held
func (r *Runner) publish(result ExperimentResult, done int) {
	r.status.Ints.Get(status.KeyExperimentsDone).Store(int64(done))
	if gen, ok := result.SuccessGeneration(); ok {
		successes := r.status.Ints.Get(status.KeySuccesses).Add(1)
		avg := r.status.Floats.Get(status.KeyAverageGens)
		avg.Add((float64(gen) - avg.Get()) / float64(successes))
	}
	r.metrics.observeExperiment(result)
}

func randomSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
