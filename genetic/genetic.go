// Package genetic implements a genetic search for a hidden reference string
// 1. Individuals are fixed-length strings over a small alphabet, scored by positional matches
// 2. Each generation is stratified into fitness bins and the breeding pool is filled from the top bin down
// 3. Offspring inherit each position from a random parent unless a copying error mutates it
// 4. All randomness flows through an injected generator so a seed reproduces a whole experiment
package genetic

import (
	"fmt"
	"math/rand/v2"
)

// --- Concrete Operator Implementations ---

// BinSelector fills the breeding pool from the fittest bin downward
// A bin that fits into the remaining capacity is admitted whole; the first bin that
// overflows it is sampled uniformly without replacement and selection stops there
type BinSelector struct{}

var _ Selector = BinSelector{}

// Select implements the Selector interface
func (BinSelector) Select(bins *Bins, size int, rng *rand.Rand) (Population, error) {
	pool := make(Population, 0, size)

	for score := bins.MaxScore(); score >= 0 && len(pool) < size; score-- {
		members := bins.Members(score)
		if len(members) == 0 {
			continue
		}

		remaining := size - len(pool)
		if len(members) <= remaining {
			pool = append(pool, members...)
			continue
		}

		pool = append(pool, sampleWithoutReplacement(members, remaining, rng)...)
	}

	if len(pool) < size {
		return nil, fmt.Errorf("%w: %d of %d slots from %d individuals", ErrPoolUnderfilled, len(pool), size, bins.Total())
	}
	return pool, nil
}

// sampleWithoutReplacement picks n distinct members uniformly
// The index slice is local to the call; consumed indices are swapped behind the cursor
func sampleWithoutReplacement(members []Individual, n int, rng *rand.Rand) []Individual {
	idx := make([]int, len(members))
	for i := range idx {
		idx[i] = i
	}

	picked := make([]Individual, n)
	for k := 0; k < n; k++ {
		j := k + rng.IntN(len(idx)-k)
		idx[k], idx[j] = idx[j], idx[k]
		picked[k] = members[idx[k]]
	}
	return picked
}

// UniformCombiner mates two parents position by position
// Each position mutates to a random symbol with probability 1/MutationRate, otherwise it
// is inherited from either parent with equal odds. MutationRate 0 disables mutation
type UniformCombiner struct {
	Alphabet     Alphabet
	MutationRate int
}

var _ Combiner = (*UniformCombiner)(nil)

// Combine creates one offspring; parents must have equal length
func (uc *UniformCombiner) Combine(first, second Individual, rng *rand.Rand) Individual {
	offspring := make(Individual, len(first))
	for i := range offspring {
		if uc.MutationRate > 0 && rng.IntN(uc.MutationRate) == 0 {
			offspring[i] = uc.Alphabet.Random(rng)
			continue
		}
		if rng.IntN(2) == 0 {
			offspring[i] = first[i]
		} else {
			offspring[i] = second[i]
		}
	}
	return offspring
}

// Reproduce breeds size offspring from the pool
// Each offspring has two parents taken from distinct pool slots; the slots may still hold
// identical genomes
func Reproduce(pool Population, size int, combiner Combiner, rng *rand.Rand) (Population, error) {
	n := len(pool)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrPoolTooSmall, n)
	}

	next := make(Population, size)
	for i := range next {
		first := rng.IntN(n)
		second := rng.IntN(n - 1)
		if second >= first {
			second++
		}
		next[i] = combiner.Combine(pool[first], pool[second], rng)
	}
	return next, nil
}
