package genetic

import "fmt"

// Codec translates between genotype (evolvable) and phenotype (usable) representations
type Codec[G any, P any] interface {
	Encode(P) (G, error)
	Decode(G) P
}

// TextCodec maps individuals to and from their letter form
type TextCodec struct {
	Alphabet Alphabet
	Length   int
}

var _ Codec[Individual, string] = TextCodec{}

// Encode parses text into an individual, rejecting wrong lengths and foreign symbols
func (c TextCodec) Encode(text string) (Individual, error) {
	if len(text) != c.Length {
		return nil, fmt.Errorf("%w: %q has length %d, want %d", ErrLengthMismatch, text, len(text), c.Length)
	}
	ind := Individual(text)
	if err := c.Alphabet.Check(ind); err != nil {
		return nil, err
	}
	return ind, nil
}

// Decode renders an individual as text
func (c TextCodec) Decode(ind Individual) string {
	return string(ind)
}

// EncodeAll parses a list of strings into a population
func (c TextCodec) EncodeAll(texts []string) (Population, error) {
	pop := make(Population, len(texts))
	for i, t := range texts {
		ind, err := c.Encode(t)
		if err != nil {
			return nil, fmt.Errorf("individual %d: %w", i, err)
		}
		pop[i] = ind
	}
	return pop, nil
}
