// Package status is the live run board shared between the runner and its displays
// Writers cache metric pointers once; readers take snapshots at their own pace
package status

import "sync/atomic"

// Integer metrics
const (
	KeyExperimentsTotal  = "experiments.total"
	KeyExperimentsDone   = "experiments.done"
	KeyExperimentsActive = "experiments.active"
	KeySuccesses         = "experiments.succeeded"
	KeyGenerations       = "generations.evaluated"
	KeyGeneration        = "generation.current"
	KeyTopCount          = "generation.top_count"
	KeyBestScore         = "generation.best_score"
)

// Float metrics
const (
	KeyMeanScore   = "generation.mean_score"
	KeyAverageGens = "experiments.average_generation"
)

// String metrics
const (
	KeyPhase     = "run.phase"
	KeyRunID     = "run.id"
	KeyReference = "run.reference"
)

// Phases written under KeyPhase
const (
	PhaseIdle      = "idle"
	PhaseRunning   = "running"
	PhaseDone      = "done"
	PhaseCancelled = "cancelled"
	PhaseFailed    = "failed"
)

// Registry is the central status facade
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry in the idle phase
func NewRegistry() *Registry {
	r := &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
	r.Strings.Get(KeyPhase).Store(PhaseIdle)
	return r
}

// Snapshot is a point-in-time copy of every metric
type Snapshot struct {
	Ints    map[string]int64   `json:"ints"`
	Floats  map[string]float64 `json:"floats"`
	Strings map[string]string  `json:"strings"`
}

// Snapshot copies all current values
// Values are read individually, so a snapshot taken during a run may mix adjacent updates
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Ints:    make(map[string]int64, r.Ints.Count()),
		Floats:  make(map[string]float64, r.Floats.Count()),
		Strings: make(map[string]string, r.Strings.Count()),
	}
	r.Ints.Range(func(key string, ptr *atomic.Int64) { s.Ints[key] = ptr.Load() })
	r.Floats.Range(func(key string, ptr *AtomicFloat) { s.Floats[key] = ptr.Get() })
	r.Strings.Range(func(key string, ptr *AtomicString) { s.Strings[key] = ptr.Load() })
	return s
}
