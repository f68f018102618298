package tracking

import "github.com/lixenwraith/evolve/genetic"

// MetricBundle is a generic container for named metrics
// Keys are metric names, values are float64 measurements
type MetricBundle map[string]float64

// Standard metric keys (conventions)
const (
	MetricGenerations   = "generations"
	MetricTopCount      = "top_count"
	MetricBestScore     = "best_score"
	MetricMeanScore     = "mean_score"
	MetricPeakTopCount  = "peak_top_count"
	MetricFinalTopCount = "final_top_count"
	MetricTopRetention  = "top_retention"
	MetricSucceeded     = "succeeded"
)

// FromStats converts generation statistics into a bundle
func FromStats(stats genetic.GenerationStats) MetricBundle {
	return MetricBundle{
		MetricTopCount:  float64(stats.TopCount),
		MetricBestScore: float64(stats.BestScore),
		MetricMeanScore: stats.MeanScore,
	}
}

// Get returns metric value or default if not present
func (b MetricBundle) Get(key string, defaultVal float64) float64 {
	if v, ok := b[key]; ok {
		return v
	}
	return defaultVal
}

// Merge combines two bundles, other values override existing
func (b MetricBundle) Merge(other MetricBundle) MetricBundle {
	result := make(MetricBundle, len(b)+len(other))
	for k, v := range b {
		result[k] = v
	}
	for k, v := range other {
		result[k] = v
	}
	return result
}

// Collector accumulates metrics over an experiment's generations
type Collector interface {
	// Collect records metrics for a single evaluated generation
	Collect(metrics MetricBundle)

	// Finalize returns accumulated metrics merged with the closing ones
	Finalize(final MetricBundle) MetricBundle

	// Reset clears accumulated state for reuse
	Reset()
}
