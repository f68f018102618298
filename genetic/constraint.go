package genetic

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// MaxAlphabetSize bounds the alphabet to the uppercase Latin letters
const MaxAlphabetSize = 26

// Alphabet is the closed symbol set 'A', 'B', ... of a fixed size
type Alphabet struct {
	size int
}

// NewAlphabet returns an alphabet of the first size letters starting at 'A'
func NewAlphabet(size int) (Alphabet, error) {
	if size < 1 || size > MaxAlphabetSize {
		return Alphabet{}, fmt.Errorf("%w: alphabet size %d outside [1, %d]", ErrInvalidConfig, size, MaxAlphabetSize)
	}
	return Alphabet{size: size}, nil
}

// Size returns the number of symbols
func (a Alphabet) Size() int {
	return a.size
}

// Symbol returns the i-th symbol; i must be in [0, Size)
func (a Alphabet) Symbol(i int) byte {
	return 'A' + byte(i)
}

// Random draws one symbol uniformly
func (a Alphabet) Random(rng *rand.Rand) byte {
	return a.Symbol(rng.IntN(a.size))
}

// Contains reports whether b belongs to the alphabet
func (a Alphabet) Contains(b byte) bool {
	return b >= 'A' && int(b-'A') < a.size
}

// Check verifies every symbol of ind against the alphabet
func (a Alphabet) Check(ind Individual) error {
	for i, b := range ind {
		if !a.Contains(b) {
			return fmt.Errorf("%w: %q at position %d (alphabet %s)", ErrInvalidSymbol, b, i, a)
		}
	}
	return nil
}

func (a Alphabet) String() string {
	var sb strings.Builder
	sb.Grow(a.size)
	for i := 0; i < a.size; i++ {
		sb.WriteByte(a.Symbol(i))
	}
	return sb.String()
}
