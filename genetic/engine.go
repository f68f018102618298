package genetic

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
)

// --- Algorithm Engine ---

// Engine runs one experiment: a random population evolves toward the reference until
// enough of it matches exactly or the generation cap is reached
type Engine struct {
	// Core operators
	initializer InitializerFunc
	selector    Selector
	combiner    Combiner
	observer    ObserverFunc

	// Configuration
	config    Config
	reference Individual

	// State
	rng     *rand.Rand
	history []GenerationStats
}

// Option customizes an Engine
type Option func(*Engine)

// WithObserver registers a callback invoked after every evaluated generation
func WithObserver(f ObserverFunc) Option {
	return func(e *Engine) { e.observer = f }
}

// NewEngine creates an engine for one experiment against reference
// A nil rng is replaced by a randomly seeded PCG
func NewEngine(config Config, reference Individual, rng *rand.Rand, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	alphabet, err := NewAlphabet(config.Alphabet)
	if err != nil {
		return nil, err
	}
	if len(reference) != config.Length {
		return nil, fmt.Errorf("reference: %w: %d vs %d", ErrLengthMismatch, len(reference), config.Length)
	}
	if err := alphabet.Check(reference); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e := &Engine{
		initializer: NewFactory(alphabet, config.Length, rng).Initializer(),
		selector:    BinSelector{},
		combiner:    &UniformCombiner{Alphabet: alphabet, MutationRate: config.MutationRate},
		config:      config,
		reference:   reference,
		rng:         rng,
		history:     make([]GenerationStats, 0, min(config.MaxGenerations+1, 1024)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Outcome is the result of one experiment
type Outcome struct {
	// Succeeded reports whether the success level was reached
	Succeeded bool
	// Generation is the generation that reached the success level; meaningful only when Succeeded
	Generation int
	// Evaluated is the number of generations stratified, including generation 0
	Evaluated int
	// Population is the last evaluated population
	Population Population
	// Bins is the stratification of Population
	Bins *Bins
}

// SuccessGeneration returns the success generation and whether there was one
func (o *Outcome) SuccessGeneration() (int, bool) {
	if !o.Succeeded {
		return 0, false
	}
	return o.Generation, true
}

// Run executes the experiment from a freshly initialized population
// On cancellation the partial outcome is returned together with the context error
func (e *Engine) Run(ctx context.Context) (*Outcome, error) {
	pop := e.initializer(e.config.PopulationSize)
	if len(pop) != e.config.PopulationSize {
		return nil, fmt.Errorf("%w: population has %d individuals, want %d", ErrInvalidConfig, len(pop), e.config.PopulationSize)
	}

	e.history = e.history[:0]
	threshold := e.config.SuccessLevel * float64(e.config.PopulationSize)
	outcome := &Outcome{Population: pop}

	for generation := 0; ; generation++ {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return outcome, ctx.Err()
		default:
		}

		bins, err := Stratify(pop, e.reference)
		if err != nil {
			return outcome, fmt.Errorf("generation %d: %w", generation, err)
		}

		stats := bins.Stats(generation)
		e.history = append(e.history, stats)
		if e.observer != nil {
			e.observer(stats, pop)
		}

		outcome.Population = pop
		outcome.Bins = bins
		outcome.Evaluated = generation + 1

		if float64(stats.TopCount) >= threshold {
			outcome.Succeeded = true
			outcome.Generation = generation
			return outcome, nil
		}
		if generation >= e.config.MaxGenerations {
			return outcome, nil
		}

		pool, err := e.selector.Select(bins, e.config.BreedingPoolSize, e.rng)
		if err != nil {
			return outcome, fmt.Errorf("generation %d: %w", generation, err)
		}
		pop, err = Reproduce(pool, e.config.PopulationSize, e.combiner, e.rng)
		if err != nil {
			return outcome, fmt.Errorf("generation %d: %w", generation, err)
		}
	}
}

// History returns the statistics of every generation evaluated by the last run
func (e *Engine) History() []GenerationStats {
	return e.history
}

// Best returns a highest-scoring individual of the outcome and its score
func (o *Outcome) Best() (Individual, int, error) {
	if o.Bins == nil || o.Bins.Total() == 0 {
		return nil, 0, errors.New("no individuals evaluated")
	}
	for score := o.Bins.MaxScore(); score >= 0; score-- {
		if members := o.Bins.Members(score); len(members) > 0 {
			return members[0], score, nil
		}
	}
	return nil, 0, errors.New("no individuals evaluated")
}
