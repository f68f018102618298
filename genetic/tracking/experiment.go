package tracking

// ExperimentCollector extends GenerationCollector with exact-match tracking
// It records the peak and the latest number of individuals matching the reference
type ExperimentCollector struct {
	GenerationCollector
	peakTop    int
	currentTop int
}

// NewExperimentCollector creates a collector for one experiment
func NewExperimentCollector() *ExperimentCollector {
	return &ExperimentCollector{
		GenerationCollector: *NewGenerationCollector(),
	}
}

func (c *ExperimentCollector) Collect(metrics MetricBundle) {
	c.GenerationCollector.Collect(metrics)

	if top, ok := metrics[MetricTopCount]; ok {
		c.currentTop = int(top)
		if c.currentTop > c.peakTop {
			c.peakTop = c.currentTop
		}
	}
}

func (c *ExperimentCollector) Finalize(final MetricBundle) MetricBundle {
	result := c.GenerationCollector.Finalize(final)

	result[MetricPeakTopCount] = float64(c.peakTop)
	result[MetricFinalTopCount] = float64(c.currentTop)

	if c.peakTop > 0 {
		result[MetricTopRetention] = float64(c.currentTop) / float64(c.peakTop)
	}

	return result
}

func (c *ExperimentCollector) Reset() {
	c.GenerationCollector.Reset()
	c.peakTop = 0
	c.currentTop = 0
}
