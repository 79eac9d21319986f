package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records run statistics on its own registry, so several
// collectors can coexist in one process and in tests.
type Collector struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	failedTotal  *prometheus.CounterVec
	steps        prometheus.Histogram
	duration     *prometheus.HistogramVec
	peakInfected prometheus.Gauge
	drift        prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sirsim_runs_total",
			Help: "Completed runs by precision mode and stop reason",
		}, []string{"mode", "reason"}),
		failedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sirsim_runs_failed_total",
			Help: "Runs that returned an error, by runner",
		}, []string{"runner"}),
		steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sirsim_run_steps",
			Help:    "Euler steps per run",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sirsim_run_duration_seconds",
			Help:    "Wall time per run",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.25, 1},
		}, []string{"mode"}),
		peakInfected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sirsim_last_peak_infected",
			Help: "Peak infected count of the most recent run",
		}),
		drift: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sirsim_last_conservation_drift",
			Help: "Conservation drift of the most recent run",
		}),
	}
	c.registry.MustRegister(c.runsTotal, c.failedTotal, c.steps, c.duration, c.peakInfected, c.drift)
	return c
}

// ObserveRun records one finished run.
func (c *Collector) ObserveRun(mode, reason string, steps int, elapsed time.Duration, s Summary) {
	c.runsTotal.WithLabelValues(mode, reason).Inc()
	c.steps.Observe(float64(steps))
	c.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	c.peakInfected.Set(s.PeakInfected)
	c.drift.Set(s.ConservationDrift)
}

func (c *Collector) ObserveFailure(runner string) {
	c.failedTotal.WithLabelValues(runner).Inc()
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile writes the current values in the text exposition format,
// for node_exporter's textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
