package genetic

import (
	"math/rand/v2"
)

// --- Random Initialization ---

// Factory produces random individuals and populations of one genome shape
// All draws come from the injected generator, so a seeded generator reproduces the output
type Factory struct {
	alphabet Alphabet
	length   int
	rng      *rand.Rand
}

// NewFactory creates a factory for genomes of the given alphabet and length
func NewFactory(alphabet Alphabet, length int, rng *rand.Rand) *Factory {
	return &Factory{
		alphabet: alphabet,
		length:   length,
		rng:      rng,
	}
}

// RandomChar returns one symbol chosen uniformly from the alphabet
func (f *Factory) RandomChar() byte {
	return f.alphabet.Random(f.rng)
}

// RandomIndividual returns a fresh genome with every position drawn independently
func (f *Factory) RandomIndividual() Individual {
	ind := make(Individual, f.length)
	for i := range ind {
		ind[i] = f.RandomChar()
	}
	return ind
}

// RandomPopulation returns size fresh individuals; duplicates are allowed
func (f *Factory) RandomPopulation(size int) Population {
	pop := make(Population, size)
	for i := range pop {
		pop[i] = f.RandomIndividual()
	}
	return pop
}

// Initializer adapts the factory to InitializerFunc
func (f *Factory) Initializer() InitializerFunc {
	return f.RandomPopulation
}
