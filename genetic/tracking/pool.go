package tracking

import "sync"

// CollectorPool manages reusable experiment collectors across concurrent workers
type CollectorPool struct {
	free []*ExperimentCollector
	mu   sync.Mutex
}

// NewCollectorPool creates a pool with capacity for prealloc idle collectors
func NewCollectorPool(prealloc int) *CollectorPool {
	return &CollectorPool{
		free: make([]*ExperimentCollector, 0, prealloc),
	}
}

// Acquire gets a reset collector, creating one if none is idle
func (p *CollectorPool) Acquire() *ExperimentCollector {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) > 0 {
		c := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		c.Reset()
		return c
	}
	return NewExperimentCollector()
}

// Release returns a collector to the pool
func (p *CollectorPool) Release(c *ExperimentCollector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, c)
}
