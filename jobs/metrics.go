package jobs

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job metrics against the provided registerer. When
// the registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker provides lifecycle instrumentation for a single task run.
type Tracker struct {
	metrics *Metrics
	task    string
	start   time.Time
}

// Track spawns a tracker for the given task type.
func (m *Metrics) Track(task string) *Tracker {
	if m == nil {
		return &Tracker{task: task, start: time.Now()}
	}
	return &Tracker{metrics: m, task: task, start: time.Now()}
}

// End finalises the tracker, recording duration and success/failure counts,
// and returns the provided error untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.task == "" {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
		t.metrics.failures.WithLabelValues(t.task).Inc()
	}
	t.metrics.runs.WithLabelValues(t.task, status).Inc()
	t.metrics.duration.WithLabelValues(t.task).Observe(time.Since(t.start).Seconds())
	return err
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mitienda_jobs_total",
		Help: "Total task executions partitioned by task type and status.",
	}, []string{"task", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mitienda_jobs_failures_total",
		Help: "Total failures observed for background tasks.",
	}, []string{"task"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mitienda_job_duration_seconds",
		Help:    "Duration in seconds of background task executions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})
	registerer.MustRegister(runs, failures, duration)
	return &Metrics{runs: runs, failures: failures, duration: duration}
}
