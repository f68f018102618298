package genetic

import (
	"math/rand/v2"
)

// --- Core Data Structures ---

// Individual is one candidate solution: a fixed-length string of alphabet symbols
// Individuals are never modified after construction; offspring are always fresh slices
type Individual []byte

// String renders the genome as text
func (ind Individual) String() string {
	return string(ind)
}

// Population is the ordered set of individuals owned by one generation
type Population []Individual

// GenerationStats summarizes one evaluated generation
type GenerationStats struct {
	// Generation is the index of the evaluated generation (0 is the random start)
	Generation int
	// TopCount is the number of individuals matching the reference exactly
	TopCount int
	// BestScore is the highest similarity present in the population
	BestScore int
	// MeanScore is the average similarity across the population
	MeanScore float64
	// Counts holds the per-score bin sizes, indexed by score
	Counts []int
}

// --- Function Types for Flexibility ---

// InitializerFunc creates the starting population of an experiment
type InitializerFunc func(size int) Population

// ObserverFunc receives statistics and the population after each evaluated generation
// The population is owned by the engine and must not be modified
type ObserverFunc func(stats GenerationStats, pop Population)

// --- Core Operators as Interfaces ---

// Selector chooses the breeding pool from stratified bins
type Selector interface {
	// Select returns exactly size individuals, drawn from the bins
	Select(bins *Bins, size int, rng *rand.Rand) (Population, error)
}

// Combiner mates two parents into one offspring
type Combiner interface {
	// Combine returns a freshly allocated offspring of the parents
	Combine(first, second Individual, rng *rand.Rand) Individual
}
