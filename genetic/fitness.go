package genetic

import "fmt"

// --- Fitness Evaluation ---

// Similarity counts the positions at which a and b hold the same symbol
func Similarity(a, b Individual) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}
	count := 0
	for i := range a {
		if a[i] == b[i] {
			count++
		}
	}
	return count, nil
}

// --- Stratification ---

// Bins groups a population by similarity score
// Bins hold references into the stratified population; they never copy individuals
type Bins struct {
	members [][]Individual
	total   int
}

// NewBins creates empty bins for scores 0..maxScore
func NewBins(maxScore int) *Bins {
	return &Bins{members: make([][]Individual, maxScore+1)}
}

// Stratify scores every individual against the reference and files it under its score
func Stratify(pop Population, reference Individual) (*Bins, error) {
	bins := NewBins(len(reference))
	for i, ind := range pop {
		score, err := Similarity(reference, ind)
		if err != nil {
			return nil, fmt.Errorf("individual %d: %w", i, err)
		}
		bins.Add(score, ind)
	}
	return bins, nil
}

// Add files ind under score
func (b *Bins) Add(score int, ind Individual) {
	b.members[score] = append(b.members[score], ind)
	b.total++
}

// MaxScore returns the highest score a bin exists for
func (b *Bins) MaxScore() int {
	return len(b.members) - 1
}

// Count returns the number of individuals holding score
func (b *Bins) Count(score int) int {
	if score < 0 || score >= len(b.members) {
		return 0
	}
	return len(b.members[score])
}

// Members returns the individuals holding score, in stratification order
func (b *Bins) Members(score int) []Individual {
	if score < 0 || score >= len(b.members) {
		return nil
	}
	return b.members[score]
}

// Counts returns the bin sizes indexed by score
func (b *Bins) Counts() []int {
	counts := make([]int, len(b.members))
	for score, m := range b.members {
		counts[score] = len(m)
	}
	return counts
}

// Total returns the number of stratified individuals
func (b *Bins) Total() int {
	return b.total
}

// Stats summarizes the bins as generation statistics
func (b *Bins) Stats(generation int) GenerationStats {
	stats := GenerationStats{
		Generation: generation,
		TopCount:   b.Count(b.MaxScore()),
		Counts:     b.Counts(),
	}

	sum := 0
	for score, m := range b.members {
		if len(m) > 0 {
			stats.BestScore = score
		}
		sum += score * len(m)
	}
	if b.total > 0 {
		stats.MeanScore = float64(sum) / float64(b.total)
	}
	return stats
}
