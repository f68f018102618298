package tracking

// GenerationCollector implements Collector with running sum, min and max per metric
type GenerationCollector struct {
	generations int
	sums        map[string]float64
	counts      map[string]int
	mins        map[string]float64
	maxs        map[string]float64
	minSet      map[string]bool
}

// NewGenerationCollector creates a reusable collector
func NewGenerationCollector() *GenerationCollector {
	return &GenerationCollector{
		sums:   make(map[string]float64),
		counts: make(map[string]int),
		mins:   make(map[string]float64),
		maxs:   make(map[string]float64),
		minSet: make(map[string]bool),
	}
}

func (c *GenerationCollector) Collect(metrics MetricBundle) {
	c.generations++

	for key, value := range metrics {
		c.sums[key] += value
		c.counts[key]++

		if !c.minSet[key] || value < c.mins[key] {
			c.mins[key] = value
			c.minSet[key] = true
		}
		if value > c.maxs[key] {
			c.maxs[key] = value
		}
	}
}

func (c *GenerationCollector) Finalize(final MetricBundle) MetricBundle {
	result := make(MetricBundle)

	result[MetricGenerations] = float64(c.generations)

	for key, sum := range c.sums {
		if count := c.counts[key]; count > 0 {
			result["avg_"+key] = sum / float64(count)
		}
	}
	for key, val := range c.mins {
		result["min_"+key] = val
	}
	for key, val := range c.maxs {
		result["max_"+key] = val
	}

	return result.Merge(final)
}

func (c *GenerationCollector) Reset() {
	c.generations = 0
	clear(c.sums)
	clear(c.counts)
	clear(c.mins)
	clear(c.maxs)
	clear(c.minSet)
}
