package tracking

import (
	"testing"

	"github.com/lixenwraith/evolve/genetic"
)

func TestGenerationCollector_Accumulation(t *testing.T) {
	c := NewGenerationCollector()

	c.Collect(MetricBundle{MetricMeanScore: 4.0, MetricBestScore: 8})
	c.Collect(MetricBundle{MetricMeanScore: 6.0, MetricBestScore: 10})
	c.Collect(MetricBundle{MetricMeanScore: 8.0, MetricBestScore: 12})

	result := c.Finalize(MetricBundle{MetricSucceeded: 1.0})

	if result[MetricGenerations] != 3 {
		t.Errorf("expected 3 generations, got %v", result[MetricGenerations])
	}
	if result["avg_"+MetricMeanScore] != 6.0 {
		t.Errorf("expected avg_mean_score 6.0, got %v", result["avg_"+MetricMeanScore])
	}
	if result["min_"+MetricBestScore] != 8 || result["max_"+MetricBestScore] != 12 {
		t.Errorf("expected best score range [8, 12], got [%v, %v]",
			result["min_"+MetricBestScore], result["max_"+MetricBestScore])
	}
	if result[MetricSucceeded] != 1.0 {
		t.Errorf("expected succeeded 1.0, got %v", result[MetricSucceeded])
	}
}

func TestGenerationCollector_Reset(t *testing.T) {
	c := NewGenerationCollector()

	c.Collect(MetricBundle{"x": 10.0})
	c.Reset()
	c.Collect(MetricBundle{"x": 5.0})

	result := c.Finalize(nil)

	if result[MetricGenerations] != 1 {
		t.Errorf("expected 1 generation after reset, got %v", result[MetricGenerations])
	}
	if result["avg_x"] != 5.0 {
		t.Errorf("expected avg_x 5.0 after reset, got %v", result["avg_x"])
	}
}

func TestExperimentCollector_TopTracking(t *testing.T) {
	c := NewExperimentCollector()

	c.Collect(FromStats(genetic.GenerationStats{TopCount: 4, BestScore: 16}))
	c.Collect(FromStats(genetic.GenerationStats{TopCount: 6, BestScore: 16}))
	c.Collect(FromStats(genetic.GenerationStats{TopCount: 3, BestScore: 16}))

	result := c.Finalize(nil)

	if result[MetricPeakTopCount] != 6.0 {
		t.Errorf("expected peak 6, got %v", result[MetricPeakTopCount])
	}
	if result[MetricFinalTopCount] != 3.0 {
		t.Errorf("expected final 3, got %v", result[MetricFinalTopCount])
	}
	if result[MetricTopRetention] != 0.5 {
		t.Errorf("expected retention 0.5, got %v", result[MetricTopRetention])
	}
}

func TestExperimentCollector_NoMatchesNoRetention(t *testing.T) {
	c := NewExperimentCollector()
	c.Collect(FromStats(genetic.GenerationStats{TopCount: 0, BestScore: 3}))

	result := c.Finalize(nil)
	if _, ok := result[MetricTopRetention]; ok {
		t.Error("expected no retention metric without any exact match")
	}
}

func TestCollectorPool_Reuse(t *testing.T) {
	pool := NewCollectorPool(2)

	c1 := pool.Acquire()
	c1.Collect(MetricBundle{MetricTopCount: 1.0})

	pool.Release(c1)

	c2 := pool.Acquire()

	// Should be same instance, reset
	if c2 != c1 {
		t.Error("expected pooled collector to be reused")
	}

	result := c2.Finalize(nil)
	if result[MetricGenerations] != 0 || result[MetricPeakTopCount] != 0 {
		t.Error("expected collector to be reset on acquire")
	}
}

func TestMetricBundle_MergeAndGet(t *testing.T) {
	a := MetricBundle{"x": 1, "y": 2}
	merged := a.Merge(MetricBundle{"y": 5, "z": 3})

	if merged.Get("y", 0) != 5 || merged.Get("z", 0) != 3 || merged.Get("x", 0) != 1 {
		t.Errorf("unexpected merge result %v", merged)
	}
	if merged.Get("missing", 7) != 7 {
		t.Error("expected default for missing key")
	}
	if a["y"] != 2 {
		t.Error("merge must not modify the receiver")
	}
}
