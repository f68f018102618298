package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels of the experiments counter
const (
	resultSucceeded = "succeeded"
	resultExhausted = "exhausted"
)

// Metrics exports run progress to Prometheus
// A nil *Metrics records nothing
type Metrics struct {
	experiments *prometheus.CounterVec
	generations prometheus.Histogram
	duration    prometheus.Histogram
	evaluated   prometheus.Counter
	topCount    prometheus.Gauge
}

// NewMetrics registers the run collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		experiments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evolve",
			Name:      "experiments_total",
			Help:      "Finished experiments by result",
		}, []string{"result"}),
		generations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "evolve",
			Name:      "experiment_generations",
			Help:      "Generations evaluated per finished experiment",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "evolve",
			Name:      "experiment_duration_seconds",
			Help:      "Wall time per finished experiment",
			Buckets:   prometheus.DefBuckets,
		}),
		evaluated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "evolve",
			Name:      "generations_evaluated_total",
			Help:      "Generations stratified across all experiments",
		}),
		topCount: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "evolve",
			Name:      "top_count",
			Help:      "Exact matches in the most recently evaluated generation",
		}),
	}
}

func (m *Metrics) observeGeneration(topCount int) {
	if m == nil {
		return
	}
	m.evaluated.Inc()
	m.topCount.Set(float64(topCount))
}

func (m *Metrics) observeExperiment(result ExperimentResult) {
	if m == nil {
		return
	}
	label := resultExhausted
	if result.Succeeded {
		label = resultSucceeded
	}
	m.experiments.WithLabelValues(label).Inc()
	m.generations.Observe(float64(result.Evaluated))
	m.duration.Observe(result.Elapsed.Seconds())
}

