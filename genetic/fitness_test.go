package genetic

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// scenarioPopulation is the eight-individual fixture scored against "AAAA"
var scenarioPopulation = []string{"AAAA", "AAAA", "AAAA", "AAAB", "ABBB", "BBBB", "BABA", "AABB"}

func scenarioCodec(t *testing.T) TextCodec {
	t.Helper()
	alphabet, err := NewAlphabet(2)
	if err != nil {
		t.Fatalf("alphabet: %v", err)
	}
	return TextCodec{Alphabet: alphabet, Length: 4}
}

func TestSimilarity_Properties(t *testing.T) {
	alphabet, _ := NewAlphabet(4)
	rng := rand.New(rand.NewPCG(1, 2))
	factory := NewFactory(alphabet, 16, rng)

	for i := 0; i < 200; i++ {
		a := factory.RandomIndividual()
		b := factory.RandomIndividual()

		self, err := Similarity(a, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if self != len(a) {
			t.Errorf("expected self similarity %d, got %d", len(a), self)
		}

		ab, _ := Similarity(a, b)
		ba, _ := Similarity(b, a)
		if ab != ba {
			t.Errorf("expected symmetric similarity, got %d and %d", ab, ba)
		}
		if ab < 0 || ab > len(a) {
			t.Errorf("similarity %d outside [0, %d]", ab, len(a))
		}
	}
}

func TestSimilarity_CountsMatches(t *testing.T) {
	score, err := Similarity(Individual("ABCD"), Individual("ABDC"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 2 {
		t.Errorf("expected 2, got %d", score)
	}
}

func TestSimilarity_LengthMismatch(t *testing.T) {
	_, err := Similarity(Individual("AAA"), Individual("AAAA"))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestStratify_Scenario(t *testing.T) {
	codec := scenarioCodec(t)
	pop, err := codec.EncodeAll(scenarioPopulation)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ref, _ := codec.Encode("AAAA")

	bins, err := Stratify(pop, ref)
	if err != nil {
		t.Fatalf("stratify: %v", err)
	}

	expected := []int{1, 1, 2, 1, 3}
	counts := bins.Counts()
	for score, want := range expected {
		if counts[score] != want {
			t.Errorf("score %d: expected %d individuals, got %d", score, want, counts[score])
		}
	}
	if bins.Count(4) != 3 {
		t.Errorf("expected 3 exact matches, got %d", bins.Count(4))
	}
}

func TestStratify_Partition(t *testing.T) {
	alphabet, _ := NewAlphabet(3)
	rng := rand.New(rand.NewPCG(7, 7))
	factory := NewFactory(alphabet, 10, rng)
	ref := factory.RandomIndividual()
	pop := factory.RandomPopulation(500)

	bins, err := Stratify(pop, ref)
	if err != nil {
		t.Fatalf("stratify: %v", err)
	}

	sum := 0
	for _, c := range bins.Counts() {
		sum += c
	}
	if sum != len(pop) || bins.Total() != len(pop) {
		t.Errorf("expected bins to hold %d individuals, got sum=%d total=%d", len(pop), sum, bins.Total())
	}

	// Each individual sits exactly once, in the bin of its own score
	seen := make(map[*byte]int)
	for score := 0; score <= bins.MaxScore(); score++ {
		for _, ind := range bins.Members(score) {
			got, _ := Similarity(ref, ind)
			if got != score {
				t.Errorf("individual %s filed under %d, scores %d", ind, score, got)
			}
			seen[&ind[0]]++
		}
	}
	for _, ind := range pop {
		if seen[&ind[0]] != 1 {
			t.Errorf("individual %s appears %d times", ind, seen[&ind[0]])
		}
	}
}

func TestStratify_FreshBinsEachCall(t *testing.T) {
	codec := scenarioCodec(t)
	pop, _ := codec.EncodeAll(scenarioPopulation)
	ref, _ := codec.Encode("AAAA")

	first, _ := Stratify(pop, ref)
	second, _ := Stratify(pop, ref)

	if first.Total() != second.Total() || second.Total() != len(pop) {
		t.Errorf("expected both stratifications to hold %d, got %d and %d", len(pop), first.Total(), second.Total())
	}
}

func TestStratify_LengthMismatch(t *testing.T) {
	pop := Population{Individual("AAAA"), Individual("AAA")}
	if _, err := Stratify(pop, Individual("AAAA")); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestBins_Stats(t *testing.T) {
	codec := scenarioCodec(t)
	pop, _ := codec.EncodeAll(scenarioPopulation)
	ref, _ := codec.Encode("AAAA")
	bins, _ := Stratify(pop, ref)

	stats := bins.Stats(5)
	if stats.Generation != 5 {
		t.Errorf("expected generation 5, got %d", stats.Generation)
	}
	if stats.TopCount != 3 || stats.BestScore != 4 {
		t.Errorf("expected top=3 best=4, got top=%d best=%d", stats.TopCount, stats.BestScore)
	}
	// (0 + 1 + 2*2 + 3 + 4*3) / 8
	if stats.MeanScore != 20.0/8.0 {
		t.Errorf("expected mean 2.5, got %v", stats.MeanScore)
	}
}
